package ports

import (
	"context"
	"io"

	"samplewms/adapters/excel"
	"samplewms/domain/sample"
)

// WorkbookExporter renders samples into an xlsx document
type WorkbookExporter interface {
	Export(ctx context.Context, samples []sample.Sample) ([]byte, error)
}

// TemplateGenerator renders the blank import template
type TemplateGenerator interface {
	Generate() ([]byte, error)
}

// SampleReader parses an uploaded document into samples
type SampleReader interface {
	ReadSamples(ctx context.Context, r io.Reader, fileName string) (*excel.ImportReport, error)
}
