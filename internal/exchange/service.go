package exchange

import (
	"context"
	"io"
	"time"

	"samplewms/adapters/excel"
	"samplewms/domain/sample"
	"samplewms/internal/errors"
	"samplewms/ports"

	"go.uber.org/zap"
)

// Download is a generated document ready to be sent to the user
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Config names the generated files
type Config struct {
	ExportBaseName   string
	TemplateFileName string
}

// Service runs bulk export, import and template generation against the
// sample store
type Service struct {
	repo     ports.SampleRepository
	exporter ports.WorkbookExporter
	template ports.TemplateGenerator
	reader   ports.SampleReader
	config   Config
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires the exchange service
func NewService(repo ports.SampleRepository, exporter ports.WorkbookExporter, template ports.TemplateGenerator,
	reader ports.SampleReader, config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TemplateFileName == "" {
		config.TemplateFileName = excel.DefaultTemplateConfig().FileName
	}
	return &Service{
		repo:     repo,
		exporter: exporter,
		template: template,
		reader:   reader,
		config:   config,
		now:      time.Now,
		logger:   logger.Named("Exchange"),
	}
}

// WithClock replaces the clock used for export file names
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Export renders the samples matching filter. An empty baseName uses the
// configured default.
func (s *Service) Export(ctx context.Context, filter sample.Filter, baseName string) (*Download, error) {
	samples, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list samples for export")
	}

	data, err := s.exporter.Export(ctx, samples)
	if err != nil {
		return nil, errors.Wrap(err, "failed to export samples")
	}

	if baseName == "" {
		baseName = s.config.ExportBaseName
	}
	download := &Download{
		FileName:    excel.ExportFileName(baseName, s.now()),
		ContentType: excel.ContentType,
		Data:        data,
	}
	s.logger.Info("samples exported", zap.Int("count", len(samples)), zap.String("file", download.FileName))
	return download, nil
}

// Import reads the document and prepends its accepted samples to the store
// in document order. The store is untouched when reading fails. The report
// is returned alongside NO_VALID_DATA errors so callers can show rejections.
func (s *Service) Import(ctx context.Context, r io.Reader, fileName string) (*excel.ImportReport, error) {
	report, err := s.reader.ReadSamples(ctx, r, fileName)
	if err != nil {
		s.logger.Warn("import rejected", zap.String("file", fileName), zap.Error(err))
		return report, err
	}

	if err := s.repo.Prepend(ctx, report.Samples); err != nil {
		return nil, errors.WithCode(errors.CodeOperationFailed, err, "failed to store imported samples")
	}
	s.logger.Info("samples imported",
		zap.String("file", fileName),
		zap.Int("accepted", report.Accepted()),
		zap.Int("rejected", len(report.Rejected)))
	return report, nil
}

// Template renders the blank import template
func (s *Service) Template(ctx context.Context) (*Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.OperationFailed("template generation cancelled", err)
	}
	data, err := s.template.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate template")
	}
	return &Download{
		FileName:    s.config.TemplateFileName,
		ContentType: excel.ContentType,
		Data:        data,
	}, nil
}
