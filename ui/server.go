package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"samplewms/internal/exchange"
	"samplewms/ports"
	"samplewms/ui/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds HTTP surface settings
type Config struct {
	GinMode        string
	MaxUploadBytes int64
}

// Server is the JSON API for samples and spreadsheet exchange
type Server struct {
	router   *gin.Engine
	samples  ports.SampleRepository
	exchange *exchange.Service
	config   Config
	logger   *zap.Logger
}

// NewServer creates the server and registers every route
func NewServer(samples ports.SampleRepository, svc *exchange.Service, config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 20 << 20
	}

	s := &Server{
		router:   gin.New(),
		samples:  samples,
		exchange: svc,
		config:   config,
		logger:   logger.Named("HTTP"),
	}
	s.router.Use(middleware.Recovery(s.logger), middleware.RequestLogger(s.logger))
	s.router.MaxMultipartMemory = config.MaxUploadBytes
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/samples", s.handleListSamples)
		api.POST("/samples", s.handleCreateSample)
		api.GET("/samples/stats", s.handleStats)
		api.GET("/samples/shelves", s.handleShelves)
		api.GET("/samples/:id", s.handleGetSample)
		api.PUT("/samples/:id", s.handleUpdateSample)
		api.DELETE("/samples/:id", s.handleDeleteSample)

		api.GET("/exchange/export", s.handleExport)
		api.POST("/exchange/import", s.handleImport)
		api.GET("/exchange/template", s.handleTemplate)
	}
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains in-flight
// requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
