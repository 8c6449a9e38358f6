package excel

import (
	"samplewms/adapters/coercer"
	"samplewms/domain/sample"
)

// ContentType is the MIME type of every workbook this package produces
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MappedColumn records how one header cell was resolved
type MappedColumn struct {
	Index  int      `json:"index"`
	Header string   `json:"header"`
	Field  FieldKey `json:"field"`
}

// RejectedRow is a data row dropped for missing mandatory fields
type RejectedRow struct {
	Row    int    `json:"row"` // 1-based, as shown by spreadsheet programs
	Reason string `json:"reason"`
}

// CellDiagnostic is a soft coercion problem located in the sheet
type CellDiagnostic struct {
	Row   int      `json:"row"`
	Cell  string   `json:"cell"`
	Field FieldKey `json:"field"`
	coercer.Diagnostic
}

// ImportReport is the outcome of reading one document
type ImportReport struct {
	FileName    string           `json:"file_name"`
	SheetName   string           `json:"sheet_name"`
	Columns     []MappedColumn   `json:"columns"`
	DataRows    int              `json:"data_rows"`
	Samples     []sample.Sample  `json:"samples"`
	Rejected    []RejectedRow    `json:"rejected"`
	Diagnostics []CellDiagnostic `json:"diagnostics"`
}

// Accepted returns the number of imported samples
func (r *ImportReport) Accepted() int {
	if r == nil {
		return 0
	}
	return len(r.Samples)
}
