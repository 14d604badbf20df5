package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchtally/watchtally/internal/api"
	"github.com/watchtally/watchtally/internal/config"
	"github.com/watchtally/watchtally/internal/controllers"
	"github.com/watchtally/watchtally/internal/scheduler"
	"github.com/watchtally/watchtally/internal/services/youtube"
	"github.com/watchtally/watchtally/internal/store"
	"github.com/watchtally/watchtally/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting watchtally")

	// 3. Initialize session store
	var sessionStore store.SessionStore
	if cfg.RedisAddr != "" {
		sessionStore, err = store.NewRedisStore(cfg.RedisAddr, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis session store: %w", err)
		}
	} else {
		sessionStore, err = store.NewBoltStore(cfg.SessionDBFile, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
	}
	defer sessionStore.Close()
	logger.Info("Session store initialized")

	// 4. Initialize services
	youtubeClient, err := youtube.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize YouTube client: %w", err)
	}
	logger.Info("YouTube client initialized")

	// 5. Initialize controllers
	pipelineCtrl := controllers.NewPipelineController(sessionStore, youtubeClient, cfg.SessionTTL, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize background worker and scheduler
	worker := scheduler.NewWorker(pipelineCtrl, logger)
	worker.Start()
	defer worker.Stop()

	sched := scheduler.NewScheduler(sessionStore, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, pipelineCtrl, worker, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("watchtally is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("watchtally stopped")
	return nil
}
