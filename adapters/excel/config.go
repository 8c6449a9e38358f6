package excel

import (
	"time"

	"samplewms/adapters/coercer"
	"samplewms/domain/sample"
)

// ImageAnchor places an embedded picture inside its cell. Offsets and size
// are in pixels.
type ImageAnchor struct {
	Field   FieldKey `json:"field"`
	OffsetX int      `json:"offset_x"`
	OffsetY int      `json:"offset_y"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

// ExportConfig controls the workbook assembler
type ExportConfig struct {
	SheetName        string        `json:"sheet_name"`
	HeaderHeight     float64       `json:"header_height"` // points
	RowHeight        float64       `json:"row_height"`    // points, tall enough for the anchored picture
	HeaderFill       string        `json:"header_fill"`
	Anchor           ImageAnchor   `json:"anchor"`
	LinkLabel        string        `json:"link_label"`
	InlineLabel      string        `json:"inline_label"`
	NoImageLabel     string        `json:"no_image_label"`
	FetchConcurrency int           `json:"fetch_concurrency"`
	FetchBudget      time.Duration `json:"fetch_budget"` // whole-export budget for image acquisition
}

// ImportConfig controls the import driver
type ImportConfig struct {
	DefaultPlatform  sample.Platform        `json:"default_platform"`
	PlaceholderImage string                 `json:"placeholder_image"`
	Coercion         coercer.CoercionConfig `json:"coercion"`
}

// TemplateConfig controls the template generator
type TemplateConfig struct {
	SheetName     string `json:"sheet_name"`
	FileName      string `json:"file_name"`
	HeaderFill    string `json:"header_fill"`
	RequiredFill  string `json:"required_fill"`
	HeaderHeight  float64
	ExampleHeight float64
}

// ExcelConfig groups the settings of every spreadsheet component
type ExcelConfig struct {
	Export   ExportConfig   `json:"export"`
	Import   ImportConfig   `json:"import"`
	Template TemplateConfig `json:"template"`
}

// DefaultExcelConfig returns the layout the warehouse team works with
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Export:   DefaultExportConfig(),
		Import:   DefaultImportConfig(),
		Template: DefaultTemplateConfig(),
	}
}

func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SheetName:    "样品清单",
		HeaderHeight: 30,
		RowHeight:    90,
		HeaderFill:   "2563EB",
		Anchor: ImageAnchor{
			Field:   FieldImage,
			OffsetX: 12,
			OffsetY: 12,
			Width:   80,
			Height:  70,
		},
		LinkLabel:        "查看图片",
		InlineLabel:      "内嵌图片",
		NoImageLabel:     "无图",
		FetchConcurrency: 8,
		FetchBudget:      60 * time.Second,
	}
}

func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		DefaultPlatform:  sample.PlatformDouyin,
		PlaceholderImage: "https://picsum.photos/200/200",
		Coercion:         coercer.DefaultCoercionConfig(),
	}
}

func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		SheetName:     "导入模板",
		FileName:      "样品导入模板.xlsx",
		HeaderFill:    "2563EB",
		RequiredFill:  "DC2626",
		HeaderHeight:  24,
		ExampleHeight: 20,
	}
}
