package container

import (
	"context"
	"fmt"
	"time"

	"samplewms/adapters/excel"
	"samplewms/adapters/images"
	"samplewms/internal/config"
	"samplewms/internal/exchange"
	"samplewms/internal/store"
	"samplewms/internal/testkit"
	"samplewms/ui"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Storage
	Samples *store.MemoryStore

	// Spreadsheet exchange
	Images   *images.Fetcher
	Writer   *excel.WorkbookWriter
	Template *excel.TemplateGenerator
	Reader   *excel.DataReader
	Exchange *exchange.Service

	Server *ui.Server
}

// New creates the dependency container
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Samples: store.NewMemoryStore(),
	}
	c.initExchange()
	c.Server = ui.NewServer(c.Samples, c.Exchange, ui.Config{
		GinMode:        cfg.Server.GinMode,
		MaxUploadBytes: cfg.Import.MaxBytes,
	}, logger)
	return c, nil
}

// ExcelConfig derives the spreadsheet settings from the application config
func ExcelConfig(cfg *config.Config) excel.ExcelConfig {
	excelConfig := excel.DefaultExcelConfig()
	excelConfig.Export.FetchConcurrency = cfg.Export.FetchConcurrency
	excelConfig.Export.FetchBudget = cfg.Export.FetchBudget
	excelConfig.Import.DefaultPlatform = cfg.Import.DefaultPlatform
	excelConfig.Import.PlaceholderImage = cfg.Import.PlaceholderImage
	return excelConfig
}

// FetchConfig derives the image fetch limits from the application config
func FetchConfig(cfg *config.Config) images.FetchConfig {
	fetchConfig := images.DefaultFetchConfig()
	fetchConfig.Timeout = cfg.Export.FetchTimeout
	fetchConfig.MaxBytes = cfg.Export.MaxImageBytes
	return fetchConfig
}

func (c *Container) initExchange() {
	excelConfig := ExcelConfig(c.Config)
	c.Images = images.NewFetcher(FetchConfig(c.Config), c.Logger)
	c.Writer = excel.NewWorkbookWriter(excelConfig.Export, c.Images, c.Logger)
	c.Template = excel.NewTemplateGenerator(excelConfig.Template, c.Logger)
	c.Reader = excel.NewDataReader(excelConfig.Import, c.Logger)
	c.Exchange = exchange.NewService(c.Samples, c.Writer, c.Template, c.Reader, exchange.Config{
		ExportBaseName:   c.Config.Export.BaseName,
		TemplateFileName: excelConfig.Template.FileName,
	}, c.Logger)
}

// Seed fills the store with n generated samples
func (c *Container) Seed(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	genConfig := testkit.DefaultSampleConfig()
	genConfig.Count = n
	genConfig.Seed = time.Now().UnixNano()
	samples := testkit.NewSampleGenerator(genConfig).Generate()
	if err := c.Samples.Prepend(ctx, samples); err != nil {
		return err
	}
	c.Logger.Info("seeded demo samples", zap.Int("count", n))
	return nil
}
