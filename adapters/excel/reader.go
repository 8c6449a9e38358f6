package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"samplewms/adapters/coercer"
	"samplewms/domain/core"
	"samplewms/domain/sample"
	apperrors "samplewms/internal/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	fileTypeXLSX = "xlsx"
	fileTypeCSV  = "csv"
)

// DataReader turns uploaded xlsx or csv documents into samples
type DataReader struct {
	config  ImportConfig
	coercer *coercer.TypeCoercer
	logger  *zap.Logger
}

// NewDataReader creates a reader with the given import rules
func NewDataReader(config ImportConfig, logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.DefaultPlatform.Valid() {
		config.DefaultPlatform = sample.PlatformDouyin
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.Coercion),
		logger:  logger.Named("DataReader"),
	}
}

// WithClock replaces the clock used for "today" defaults
func (r *DataReader) WithClock(now func() time.Time) *DataReader {
	r.coercer.WithClock(now)
	return r
}

// DetectFileType maps a file name onto a supported document type. An empty
// name is treated as xlsx.
func DetectFileType(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	switch ext {
	case "", ".xlsx", ".xlsm":
		return fileTypeXLSX, nil
	case ".csv":
		return fileTypeCSV, nil
	case ".xls":
		return "", apperrors.InvalidInput("legacy .xls workbooks are not supported, save the file as .xlsx")
	}
	return "", apperrors.InvalidInput(fmt.Sprintf("unsupported file type %q", ext))
}

// sheetCells yields the typed value of a data cell for a field
type sheetCells func(row, col int, formatted string, kind Kind) interface{}

// ReadSamples reads the first worksheet (or the csv body), maps its header
// row and converts every non-blank data row. Rows lacking a name or a
// location are rejected and reported. A document yielding no accepted rows
// fails with NO_VALID_DATA.
func (r *DataReader) ReadSamples(ctx context.Context, src io.Reader, fileName string) (*ImportReport, error) {
	fileType, err := DetectFileType(fileName)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	r.logger.Info("reading import document", zap.String("file", fileName), zap.String("type", fileType))

	report := &ImportReport{FileName: fileName}
	var (
		rows  [][]string
		cells sheetCells
	)
	switch fileType {
	case fileTypeCSV:
		rows, err = r.readCSV(src)
		cells = textCells
	default:
		var f *excelize.File
		f, report.SheetName, rows, err = r.readWorkbook(src)
		if f != nil {
			defer f.Close()
			cells = workbookCells(f, report.SheetName)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := r.convert(ctx, rows, cells, report); err != nil {
		return nil, err
	}

	r.logger.Info("import document parsed",
		zap.String("file", fileName),
		zap.Int("rows", report.DataRows),
		zap.Int("accepted", report.Accepted()),
		zap.Int("rejected", len(report.Rejected)),
		zap.Int("diagnostics", len(report.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)))

	if report.Accepted() == 0 {
		return report, apperrors.NoValidData(
			fmt.Sprintf("no valid rows in %d data rows (name and location are required)", report.DataRows))
	}
	return report, nil
}

func (r *DataReader) readWorkbook(src io.Reader) (*excelize.File, string, [][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, "", nil, apperrors.MalformedDocument("document is not a readable xlsx workbook", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", nil, apperrors.MalformedDocument("workbook has no worksheets", nil)
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, "", nil, apperrors.OperationFailed(fmt.Sprintf("failed to read worksheet %s", sheet), err)
	}
	r.logger.Debug("worksheet read", zap.String("sheet", sheet), zap.Int("rows", len(rows)))
	return f, sheet, rows, nil
}

func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.MalformedDocument("document is not readable csv", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func (r *DataReader) convert(ctx context.Context, rows [][]string, cells sheetCells, report *ImportReport) error {
	if len(rows) == 0 {
		return nil
	}
	headers := ResolveHeaders(rows[0])
	columns := headers.Columns()
	for _, col := range columns {
		report.Columns = append(report.Columns, MappedColumn{
			Index:  col,
			Header: strings.TrimSpace(rows[0][col]),
			Field:  headers[col],
		})
	}
	if !headers.Has(FieldName) || !headers.Has(FieldLocation) {
		r.logger.Warn("mandatory columns not found in header row",
			zap.Bool("name", headers.Has(FieldName)),
			zap.Bool("location", headers.Has(FieldLocation)))
	}

	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return apperrors.OperationFailed("import cancelled", err)
		}
		row := rows[i]
		if blankRow(row) {
			continue
		}
		report.DataRows++
		rowNum := i + 1

		s := r.newRowSample()
		for _, col := range columns {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			field, _ := FieldByKey(headers[col])
			value := cells(i, col, row[col], field.Kind)
			if d := r.applyCell(&s, field, value); d != nil {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
				report.Diagnostics = append(report.Diagnostics, CellDiagnostic{
					Row:        rowNum,
					Cell:       cell,
					Field:      field.Key,
					Diagnostic: *d,
				})
			}
		}

		if err := s.Validate(); err != nil {
			report.Rejected = append(report.Rejected, RejectedRow{Row: rowNum, Reason: err.Error()})
			continue
		}
		s.ID = core.NewSampleID()
		report.Samples = append(report.Samples, s)
	}
	return nil
}

// newRowSample returns the defaults a row starts from before its cells apply
func (r *DataReader) newRowSample() sample.Sample {
	return sample.Sample{
		Category:           r.config.Coercion.DefaultCategory,
		EntryDate:          r.coercer.Today(),
		Platforms:          []sample.Platform{r.config.DefaultPlatform},
		ImageURL:           r.config.PlaceholderImage,
		SelectionCount:     0,
		IsFreeShipping:     true,
		IncludeShippingFee: false,
		RemarkImages:       []string{},
	}
}

// applyCell coerces one non-empty cell into its field
func (r *DataReader) applyCell(s *sample.Sample, field Field, value interface{}) *coercer.Diagnostic {
	c := r.coercer
	var d *coercer.Diagnostic
	switch field.Key {
	case FieldName:
		s.Name = c.Text(value)
	case FieldBrand:
		s.BrandName = c.Text(value)
	case FieldCategory:
		s.Category, d = c.Category(value)
	case FieldLocation:
		s.LocationCode = c.Text(value)
	case FieldStock:
		s.StockQuantity, d = c.Integer(value)
	case FieldPrice:
		s.Price, d = c.Decimal(value)
	case FieldCommission:
		s.CommissionRate, d = c.Decimal(value)
	case FieldMechanism:
		s.Mechanism = c.Text(value)
	case FieldPlatforms:
		s.Platforms, d = c.Platforms(value)
	case FieldSpecs:
		s.Specs = c.Text(value)
	case FieldEntryDate:
		s.EntryDate, d = c.Date(value)
	case FieldTracking:
		s.TrackingNumber = c.Text(value)
	case FieldBusinessContact:
		s.BusinessContact = c.Text(value)
	case FieldMerchantContact:
		s.MerchantContact = c.Text(value)
	case FieldMerchantPhone:
		s.MerchantPhone = c.Text(value)
	case FieldRemarks:
		s.Remarks = c.Text(value)
	case FieldImage:
		s.ImageURL = c.Text(value)
	case FieldProcurementPrice:
		var v float64
		v, d = c.Decimal(value)
		s.ProcurementPrice = &v
	case FieldSelectionCount:
		s.SelectionCount, d = c.Integer(value)
	case FieldAssistantAnchor:
		s.AssistantAnchor = c.Text(value)
	case FieldFreeShipping:
		s.IsFreeShipping, d = c.Bool(value, s.IsFreeShipping)
	case FieldIncludeShippingFee:
		s.IncludeShippingFee, d = c.Bool(value, s.IncludeShippingFee)
	}
	return d
}

func textCells(_, _ int, formatted string, _ Kind) interface{} {
	return formatted
}

// workbookCells prefers native cell values for numeric and date fields.
// Numbers shown with a percent format keep their formatted text so "20%"
// stays 20 rather than 0.2; date-formatted numbers become serials.
func workbookCells(f *excelize.File, sheet string) sheetCells {
	return func(row, col int, formatted string, kind Kind) interface{} {
		if !kind.numeric() && kind != KindDate {
			return formatted
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return formatted
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil {
			return formatted
		}
		if cellType != excelize.CellTypeNumber && cellType != excelize.CellTypeUnset {
			return formatted
		}
		raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			return formatted
		}
		number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return formatted
		}
		if kind == KindDate {
			if raw != formatted {
				return number
			}
			return formatted
		}
		if strings.HasSuffix(strings.TrimSpace(formatted), "%") {
			return formatted
		}
		return number
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
