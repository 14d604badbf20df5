package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), quietLogger())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testSession(id string) *models.Session {
	session := models.NewSession(id)
	session.BeginProcessing()
	session.RemovedVideoCount = 2
	session.FilteredData = []string{"abc|2023-10-12T04:17:43.284Z|0"}
	return session
}

func TestBoltStoreSaveLoadDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing session, got %v", err)
	}

	if err := st.Save(ctx, "s1", testSession("s1"), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := st.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State != models.StateRequestingData {
		t.Errorf("State mismatch: %s", loaded.State)
	}
	if loaded.RemovedVideoCount != 2 {
		t.Errorf("RemovedVideoCount mismatch: %d", loaded.RemovedVideoCount)
	}

	if err := st.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing session is not an error
	if err := st.Delete(ctx, "s1"); err != nil {
		t.Errorf("Delete of missing session failed: %v", err)
	}
}

func TestBoltStoreSaveReplaces(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := testSession("s1")
	if err := st.Save(ctx, "s1", first, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := testSession("s1")
	second.RemovedVideoCount = 9
	if err := st.Save(ctx, "s1", second, time.Hour); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := st.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.RemovedVideoCount != 9 {
		t.Errorf("Expected last write to win, got removed count %d", loaded.RemovedVideoCount)
	}
}

func TestBoltStoreExpiredSessionIsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, "s1", testSession("s1"), -time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := st.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired session to be absent, got %v", err)
	}
}

func TestBoltStorePurgeExpired(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, "old1", testSession("old1"), -time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := st.Save(ctx, "old2", testSession("old2"), -time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := st.Save(ctx, "live", testSession("live"), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	purged, err := st.PurgeExpired()
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("Expected 2 purged sessions, got %d", purged)
	}

	if _, err := st.Load(ctx, "live"); err != nil {
		t.Errorf("Live session should survive the purge: %v", err)
	}
}
