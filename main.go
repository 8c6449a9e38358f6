package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"samplewms/internal/config"
	"samplewms/internal/container"
	"samplewms/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		Filename: cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Samples > 0 {
		if err := c.Seed(ctx, cfg.Seed.Samples); err != nil {
			logger.Fatal("failed to seed samples", zap.Error(err))
		}
	}

	addr := ":" + cfg.Server.Port
	if err := c.Server.Start(ctx, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
