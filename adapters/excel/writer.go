package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"samplewms/adapters/images"
	"samplewms/domain/sample"
	apperrors "samplewms/internal/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxFormulaLen is Excel's limit on formula text
const maxFormulaLen = 8192

// ImageSource resolves image references for embedding
type ImageSource interface {
	Acquire(ctx context.Context, ref string) (*images.Image, bool)
}

// WorkbookWriter assembles export workbooks
type WorkbookWriter struct {
	config ExportConfig
	images ImageSource
	logger *zap.Logger
}

// NewWorkbookWriter creates a writer. A nil image source disables embedding;
// link formulas are still written.
func NewWorkbookWriter(config ExportConfig, source ImageSource, logger *zap.Logger) *WorkbookWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookWriter{
		config: config,
		images: source,
		logger: logger.Named("WorkbookWriter"),
	}
}

// ExportFileName returns "<base>_<YYYY-MM-DD>.xlsx"
func ExportFileName(base string, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "LiveWMS_Export"
	}
	return fmt.Sprintf("%s_%s.xlsx", base, now.Format(sample.DateLayout))
}

type exportStyles struct {
	header, body, link, noImage int
}

// Export renders samples into an xlsx document, one row per sample in input
// order. Image failures degrade the affected row only.
func (w *WorkbookWriter) Export(ctx context.Context, samples []sample.Sample) ([]byte, error) {
	start := time.Now()
	pictures := w.acquireAll(ctx, samples)
	if err := ctx.Err(); err != nil {
		return nil, apperrors.OperationFailed("export cancelled", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := w.config.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperrors.OperationFailed("failed to name worksheet", err)
	}

	styles, err := w.newStyles(f)
	if err != nil {
		return nil, apperrors.OperationFailed("failed to create styles", err)
	}

	columns := ExportColumns()
	headerStyleOf := func(Field) int { return styles.header }
	if err := writeHeaderRow(f, sheet, columns, Field.ExportHeader, headerStyleOf, w.config.HeaderHeight); err != nil {
		return nil, apperrors.OperationFailed("failed to write header row", err)
	}
	if err := freezeHeader(f, sheet); err != nil {
		return nil, apperrors.OperationFailed("failed to freeze header row", err)
	}
	fullCalc := true
	if err := f.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
		return nil, apperrors.OperationFailed("failed to set calculation properties", err)
	}

	imageCol := columnIndex(columns, w.config.Anchor.Field)
	if imageCol < 0 {
		w.logger.Warn("image anchor field not in export layout; pictures disabled",
			zap.String("field", string(w.config.Anchor.Field)))
	}

	embedded := 0
	for i := range samples {
		row := i + 2
		ok, err := w.writeRow(f, sheet, row, columns, imageCol, &samples[i], pictures[i], styles)
		if err != nil {
			return nil, apperrors.OperationFailed(fmt.Sprintf("failed to write row %d", row), err)
		}
		if ok {
			embedded++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.OperationFailed("failed to serialize workbook", err)
	}

	w.logger.Info("workbook exported",
		zap.Int("rows", len(samples)),
		zap.Int("pictures", embedded),
		zap.Int("bytes", buf.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return buf.Bytes(), nil
}

// acquireAll fetches every row's picture concurrently. Results are indexed
// by row so completion order never affects layout.
func (w *WorkbookWriter) acquireAll(ctx context.Context, samples []sample.Sample) []*images.Image {
	pictures := make([]*images.Image, len(samples))
	if w.images == nil {
		return pictures
	}

	if w.config.FetchBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.FetchBudget)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := w.config.FetchConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range samples {
		ref := strings.TrimSpace(samples[i].ImageURL)
		if ref == "" {
			continue
		}
		g.Go(func() error {
			if img, ok := w.images.Acquire(gctx, ref); ok {
				pictures[i] = img
			}
			return nil
		})
	}
	_ = g.Wait()
	return pictures
}

func (w *WorkbookWriter) writeRow(f *excelize.File, sheet string, row int, columns []Field, imageCol int,
	s *sample.Sample, pic *images.Image, styles exportStyles) (bool, error) {

	if err := f.SetRowHeight(sheet, row, w.config.RowHeight); err != nil {
		return false, err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(columns), row)
	if err := f.SetCellStyle(sheet, first, last, styles.body); err != nil {
		return false, err
	}

	for col, field := range columns {
		if col == imageCol {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheet, cell, exportValue(field, s)); err != nil {
			return false, err
		}
	}

	if imageCol < 0 {
		return false, nil
	}
	cell, _ := excelize.CoordinatesToCellName(imageCol+1, row)
	return w.writeImageCell(f, sheet, cell, s, pic, styles)
}

// writeImageCell emits the link (or the no-image label) and, when the
// picture was acquired, anchors it inside the same cell.
func (w *WorkbookWriter) writeImageCell(f *excelize.File, sheet, cell string, s *sample.Sample,
	pic *images.Image, styles exportStyles) (bool, error) {

	ref := strings.TrimSpace(s.ImageURL)
	if ref == "" {
		if err := f.SetCellValue(sheet, cell, w.config.NoImageLabel); err != nil {
			return false, err
		}
		return false, f.SetCellStyle(sheet, cell, cell, styles.noImage)
	}

	// a formula cell carries no cached label; the workbook recalculates on load
	formula := hyperlinkFormula(ref, w.config.LinkLabel)
	if len(formula) <= maxFormulaLen {
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return false, err
		}
	} else if err := f.SetCellValue(sheet, cell, w.config.InlineLabel); err != nil {
		return false, err
	}
	if err := f.SetCellStyle(sheet, cell, cell, styles.link); err != nil {
		return false, err
	}

	if pic == nil || pic.Width <= 0 || pic.Height <= 0 {
		return false, nil
	}
	anchor := w.config.Anchor
	err := f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: pic.Encoding.Extension(),
		File:      pic.Data,
		Format: &excelize.GraphicOptions{
			AltText:     s.Name,
			OffsetX:     anchor.OffsetX,
			OffsetY:     anchor.OffsetY,
			ScaleX:      float64(anchor.Width) / float64(pic.Width),
			ScaleY:      float64(anchor.Height) / float64(pic.Height),
			Positioning: "oneCell",
		},
	})
	if err != nil {
		w.logger.Warn("picture not embedded, keeping link",
			zap.String("cell", cell), zap.String("sample", s.ID.String()), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (w *WorkbookWriter) newStyles(f *excelize.File) (exportStyles, error) {
	var (
		styles exportStyles
		err    error
	)
	if styles.header, err = headerStyle(f, w.config.HeaderFill, 12); err != nil {
		return styles, err
	}
	if styles.body, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
	}); err != nil {
		return styles, err
	}
	if styles.link, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "0000FF", Underline: "single", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "bottom"},
	}); err != nil {
		return styles, err
	}
	styles.noImage, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return styles, err
}

func headerStyle(f *excelize.File, fill string, size float64) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: size, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
}

// writeHeaderRow writes header texts, column widths and header styles
func writeHeaderRow(f *excelize.File, sheet string, columns []Field, header func(Field) string,
	style func(Field) int, height float64) error {

	for i, field := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header(field)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style(field)); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, field.Width); err != nil {
			return err
		}
	}
	if height > 0 {
		return f.SetRowHeight(sheet, 1, height)
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection: []excelize.Selection{
			{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"},
		},
	})
}

func hyperlinkFormula(ref, label string) string {
	escape := func(s string) string { return strings.ReplaceAll(s, `"`, `""`) }
	return fmt.Sprintf(`HYPERLINK("%s","%s")`, escape(ref), escape(label))
}

// exportValue renders one field of s for the export sheet
func exportValue(field Field, s *sample.Sample) interface{} {
	switch field.Key {
	case FieldID:
		return s.ID.String()
	case FieldName:
		return s.Name
	case FieldBrand:
		return s.BrandName
	case FieldCategory:
		return string(s.Category)
	case FieldLocation:
		return s.LocationCode
	case FieldStock:
		return s.StockQuantity
	case FieldPrice:
		return s.Price
	case FieldCommission:
		return strconv.FormatFloat(s.CommissionRate, 'f', -1, 64) + "%"
	case FieldMechanism:
		return s.Mechanism
	case FieldPlatforms:
		return sample.JoinPlatforms(s.Platforms)
	case FieldSpecs:
		return s.Specs
	case FieldEntryDate:
		return s.EntryDate.String()
	case FieldTracking:
		return s.TrackingNumber
	case FieldBusinessContact:
		return s.BusinessContact
	case FieldMerchantContact:
		return s.MerchantContact
	case FieldMerchantPhone:
		return s.MerchantPhone
	case FieldRemarks:
		return s.Remarks
	case FieldImage:
		return s.ImageURL
	case FieldProcurementPrice:
		if s.ProcurementPrice == nil {
			return ""
		}
		return *s.ProcurementPrice
	case FieldSelectionCount:
		return s.SelectionCount
	case FieldAssistantAnchor:
		return s.AssistantAnchor
	case FieldFreeShipping:
		return yesNo(s.IsFreeShipping)
	case FieldIncludeShippingFee:
		return yesNo(s.IncludeShippingFee)
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
