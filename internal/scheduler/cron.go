package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/store"
)

// Scheduler manages scheduled maintenance tasks
type Scheduler struct {
	cron   *cron.Cron
	store  store.SessionStore
	logger *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(st store.SessionStore, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  st,
		logger: logger,
	}
}

// Start starts the scheduler. The purge job is only registered when the
// store needs sweeps (the embedded store; Redis expires keys natively).
func (s *Scheduler) Start() error {
	if purger, ok := s.store.(store.Purger); ok {
		// Every 10 minutes: purge expired sessions
		_, err := s.cron.AddFunc("*/10 * * * *", func() {
			s.runPurge(purger)
		})
		if err != nil {
			return fmt.Errorf("failed to add purge job: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runPurge executes the expiry sweep
func (s *Scheduler) runPurge(purger store.Purger) {
	purged, err := purger.PurgeExpired()
	if err != nil {
		s.logger.WithError(err).Error("Session purge failed")
		return
	}
	if purged > 0 {
		s.logger.WithField("count", purged).Info("Purged expired sessions")
	}
}
