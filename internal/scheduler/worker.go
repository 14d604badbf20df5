// Package scheduler runs the background side of the service: a worker queue
// executing the pipeline for uploaded sessions and a cron job sweeping
// expired sessions out of the embedded store.
package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PipelineRunner executes the background pipeline stages for a session
type PipelineRunner interface {
	RunPipeline(ctx context.Context, sessionID string)
}

const jobQueueSize = 64

// Worker consumes queued session IDs and runs the pipeline for each, one at
// a time. Stages within a job run strictly sequentially; there is no
// cancellation of a job once started.
type Worker struct {
	runner PipelineRunner
	jobs   chan string
	quit   chan struct{}
	done   chan struct{}
	logger *logrus.Logger
}

// NewWorker creates a new pipeline worker
func NewWorker(runner PipelineRunner, logger *logrus.Logger) *Worker {
	return &Worker{
		runner: runner,
		jobs:   make(chan string, jobQueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start launches the consumer goroutine
func (w *Worker) Start() {
	go w.run()
	w.logger.Info("Pipeline worker started")
}

// Stop stops the consumer after the current job finishes. Queued jobs that
// have not started are dropped.
func (w *Worker) Stop() {
	close(w.quit)
	<-w.done
	w.logger.Info("Pipeline worker stopped")
}

// Enqueue hands a session off for background processing. Returns an error
// when the queue is full; the caller surfaces that as a server failure.
func (w *Worker) Enqueue(sessionID string) error {
	select {
	case w.jobs <- sessionID:
		return nil
	default:
		return fmt.Errorf("pipeline queue is full")
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case sessionID := <-w.jobs:
			w.logger.WithField("session_id", sessionID).Debug("Running pipeline job")
			w.runner.RunPipeline(context.Background(), sessionID)
		case <-w.quit:
			return
		}
	}
}
