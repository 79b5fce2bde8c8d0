// Package http provides the gin HTTP server, router and shared middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	artifactHTTP "github.com/allisson/quotelink/internal/artifact/http"
	"github.com/allisson/quotelink/internal/config"
	"github.com/allisson/quotelink/internal/metrics"
	quoteHTTP "github.com/allisson/quotelink/internal/quote/http"
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server represents the public API server.
type Server struct {
	server       *http.Server
	router       *gin.Engine
	checks       []ReadinessCheck
	shuttingDown atomic.Bool
	logger       *slog.Logger
}

// NewServer creates a new API server. SetupRouter must be called before Start.
func NewServer(checks []ReadinessCheck, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		checks: checks,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and routes. A nil pdfHandler leaves the PDF routes out.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	quoteHandler *quoteHTTP.QuoteHandler,
	pdfHandler *artifactHTTP.PDFHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := quotePageCORS(cfg, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	public := router.Group("")
	if cfg.RateLimitEnabled {
		public.Use(IPRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	v1 := public.Group("/v1")
	{
		v1.GET("/quotes/:id", quoteHandler.GetHandler)
		v1.POST("/quotes/:id/response", quoteHandler.RespondHandler)
		if pdfHandler != nil {
			v1.POST("/quotes/:id/pdf", pdfHandler.GenerateQuoteHandler)
			v1.POST("/proposals/pdf", pdfHandler.RenderProposalHandler)
		}
	}

	// Paths used by the existing quote page script.
	legacy := public.Group("/api")
	{
		legacy.GET("/quote", quoteHandler.LegacyGetHandler)
		legacy.POST("/respond", quoteHandler.LegacyRespondHandler)
		if pdfHandler != nil {
			legacy.Match([]string{http.MethodGet, http.MethodPost}, "/pdf", pdfHandler.LegacyGenerateQuoteHandler)
			legacy.POST("/proposal-pdf", pdfHandler.RenderProposalHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown marks the server not ready and gracefully shuts it down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": gin.H{}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	components := gin.H{}
	for _, check := range s.checks {
		if err := check.Check(ctx); err != nil {
			ready = false
			components[check.Name] = "error"
			s.logger.Warn("readiness check failed", slog.String("component", check.Name), slog.Any("error", err))
			continue
		}
		components[check.Name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
