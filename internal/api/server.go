package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/api/handlers"
	"github.com/watchtally/watchtally/internal/api/middleware"
	"github.com/watchtally/watchtally/internal/config"
	"github.com/watchtally/watchtally/internal/controllers"
)

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	pipelineCtrl *controllers.PipelineController
	worker       handlers.Enqueuer
	logger       *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, pipelineCtrl *controllers.PipelineController, worker handlers.Enqueuer, logger *logrus.Logger) *Server {
	s := &Server{
		pipelineCtrl: pipelineCtrl,
		worker:       worker,
		logger:       logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Watch-history upload
	uploadHandler := handlers.NewUploadHandler(s.pipelineCtrl, s.worker, s.logger)
	mux.HandleFunc("/api/load-data", uploadHandler.ServeHTTP)

	// Pipeline status poll
	statusHandler := handlers.NewStatusHandler(s.pipelineCtrl, s.logger)
	mux.HandleFunc("/api/status", statusHandler.ServeHTTP)

	// Derived analytics
	analyticsHandler := handlers.NewAnalyticsHandler(s.pipelineCtrl, s.logger)
	mux.HandleFunc("/api/analytics", analyticsHandler.ServeHTTP)

	// Paginated video listing
	videosHandler := handlers.NewVideosHandler(s.pipelineCtrl, s.logger)
	mux.HandleFunc("/api/videos", videosHandler.ServeHTTP)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
