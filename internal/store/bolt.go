package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
	"github.com/watchtally/watchtally/internal/models"
	"go.etcd.io/bbolt"
)

// sessionRecord is the bolthold row wrapping a serialized session document.
// Expiry is enforced on read and by the scheduler's periodic purge; bbolt
// has no native TTL.
type sessionRecord struct {
	ID        string `boltholdKey:"ID"`
	Document  []byte
	ExpiresAt time.Time `boltholdIndex:"ExpiresAt"`
	UpdatedAt time.Time
}

// BoltStore persists sessions in an embedded bolthold database. Used when no
// Redis address is configured.
type BoltStore struct {
	store  *bolthold.Store
	logger *logrus.Logger
}

// NewBoltStore opens (or creates) the session database file
func NewBoltStore(path string, logger *logrus.Logger) (*BoltStore, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	logger.WithField("path", path).Info("Session database opened")

	return &BoltStore{store: store, logger: logger}, nil
}

// Save serializes and upserts the session with its expiry deadline
func (s *BoltStore) Save(ctx context.Context, sessionID string, session *models.Session, ttl time.Duration) error {
	doc, err := session.MarshalDocument()
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", sessionID, err)
	}

	record := &sessionRecord{
		ID:        sessionID,
		Document:  doc,
		ExpiresAt: time.Now().Add(ttl),
		UpdatedAt: time.Now(),
	}

	if err := s.store.Upsert(sessionID, record); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	return nil
}

// Load fetches the session, treating an expired record as absent
func (s *BoltStore) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	var record sessionRecord
	err := s.store.Get(sessionID, &record)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.store.Delete(sessionID, &sessionRecord{}); err != nil {
			s.logger.WithError(err).Warn("Failed to delete expired session")
		}
		return nil, ErrNotFound
	}

	return models.UnmarshalSession(sessionID, record.Document)
}

// Delete removes the session record
func (s *BoltStore) Delete(ctx context.Context, sessionID string) error {
	err := s.store.Delete(sessionID, &sessionRecord{})
	if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// PurgeExpired deletes all sessions past their expiry deadline and returns
// how many were removed
func (s *BoltStore) PurgeExpired() (int, error) {
	var expired []*sessionRecord
	err := s.store.Find(&expired, bolthold.Where("ExpiresAt").Lt(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("failed to find expired sessions: %w", err)
	}

	purged := 0
	for _, record := range expired {
		if err := s.store.Delete(record.ID, &sessionRecord{}); err != nil {
			s.logger.WithError(err).WithField("session_id", record.ID).Warn("Failed to purge session")
			continue
		}
		purged++
	}

	return purged, nil
}

// Close closes the database file
func (s *BoltStore) Close() error {
	return s.store.Close()
}
