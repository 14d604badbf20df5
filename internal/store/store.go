// Package store persists session state in an external key-value store.
// Both the background pipeline and concurrent HTTP handlers read and write
// through this interface; writes are last-writer-wins.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/watchtally/watchtally/internal/models"
)

// ErrNotFound is returned when no session exists for a key, or the stored
// session has expired
var ErrNotFound = errors.New("session not found")

// SessionStore saves, loads and deletes sessions by key with an expiry
type SessionStore interface {
	Save(ctx context.Context, sessionID string, session *models.Session, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Purger is implemented by stores that need periodic expiry sweeps
type Purger interface {
	PurgeExpired() (int, error)
}
