package excel

import (
	"time"

	"samplewms/domain/sample"
	apperrors "samplewms/internal/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// TemplateGenerator produces the blank import template
type TemplateGenerator struct {
	config TemplateConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewTemplateGenerator creates a template generator
func NewTemplateGenerator(config TemplateConfig, logger *zap.Logger) *TemplateGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateGenerator{
		config: config,
		now:    time.Now,
		logger: logger.Named("TemplateGenerator"),
	}
}

// WithClock replaces the clock used for the example entry date
func (g *TemplateGenerator) WithClock(now func() time.Time) *TemplateGenerator {
	g.now = now
	return g
}

// FileName is the suggested download name
func (g *TemplateGenerator) FileName() string {
	return g.config.FileName
}

// Generate renders one header row naming every importable field and one
// example row. Required headers carry " *" and a distinct fill.
func (g *TemplateGenerator) Generate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := g.config.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}

	optional, err := headerStyle(f, g.config.HeaderFill, 11)
	if err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}
	required, err := headerStyle(f, g.config.RequiredFill, 11)
	if err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}
	styleOf := func(field Field) int {
		if field.Required {
			return required
		}
		return optional
	}

	columns := TemplateColumns()
	if err := writeHeaderRow(f, sheet, columns, Field.TemplateHeader, styleOf, g.config.HeaderHeight); err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}
	if err := freezeHeader(f, sheet); err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}

	today := sample.DateOf(g.now()).String()
	for i, field := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		value := field.Example
		if field.Kind == KindDate && value == nil {
			value = today
		}
		if value == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return nil, apperrors.OperationFailed("failed to generate template", err)
		}
	}
	if g.config.ExampleHeight > 0 {
		if err := f.SetRowHeight(sheet, 2, g.config.ExampleHeight); err != nil {
			return nil, apperrors.OperationFailed("failed to generate template", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.OperationFailed("failed to generate template", err)
	}
	g.logger.Debug("template generated", zap.Int("columns", len(columns)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
