package controllers

import (
	"context"
	"fmt"
	"testing"

	"github.com/watchtally/watchtally/internal/models"
)

// largeListingSession builds a completed session holding n unique videos
func largeListingSession(t *testing.T, st *memStore, sessionID string, n int) {
	t.Helper()

	session := models.NewSession(sessionID)
	session.BeginProcessing()
	for i := 0; i < n; i++ {
		session.UniqueVideos = append(session.UniqueVideos, models.VideoKey{
			Title:   fmt.Sprintf("Video %04d", i),
			Channel: "Chan",
		})
	}
	session.NumOfPages = (n + session.MaxRows - 1) / session.MaxRows
	session.Advance(models.StateGeneratingAnalytics)
	session.Advance(models.StateComplete)

	if err := st.Save(context.Background(), sessionID, session, 0); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
}

func TestPageVideosLastPartialPage(t *testing.T) {
	st := newMemStore()
	ctrl := newTestController(st, &fakeEnricher{})
	ctx := context.Background()
	largeListingSession(t, st, "s1", 1200)

	page, err := ctrl.PageVideos(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("PageVideos failed: %v", err)
	}

	if page.Page != 3 || page.TotalPages != 3 {
		t.Errorf("Expected page 3 of 3, got %d of %d", page.Page, page.TotalPages)
	}
	if page.TotalRecords != 1200 {
		t.Errorf("Expected 1200 total records, got %d", page.TotalRecords)
	}
	if len(page.Items) != 200 {
		t.Fatalf("Expected 200 items on the last page, got %d", len(page.Items))
	}
	if page.StartIndex != 1000 {
		t.Errorf("Expected start index 1000, got %d", page.StartIndex)
	}
	if page.Items[0].Index != 1001 {
		t.Errorf("Expected first item at absolute position 1001, got %d", page.Items[0].Index)
	}
	if page.Items[0].Title != "Video 1000" {
		t.Errorf("Expected Video 1000 first, got %q", page.Items[0].Title)
	}

	// The resolved page number is persisted
	session, err := st.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if session.PageNum != 3 {
		t.Errorf("Expected persisted page 3, got %d", session.PageNum)
	}
}

func TestPageVideosClampsOutOfRangePages(t *testing.T) {
	st := newMemStore()
	ctrl := newTestController(st, &fakeEnricher{})
	ctx := context.Background()
	largeListingSession(t, st, "s1", 1200)

	low, err := ctrl.PageVideos(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("PageVideos failed: %v", err)
	}
	if low.Page != 1 || low.Items[0].Index != 1 {
		t.Errorf("Page 0 should clamp to 1, got page %d first index %d", low.Page, low.Items[0].Index)
	}

	high, err := ctrl.PageVideos(ctx, "s1", 99)
	if err != nil {
		t.Fatalf("PageVideos failed: %v", err)
	}
	if high.Page != 3 {
		t.Errorf("Page 99 should clamp to 3, got %d", high.Page)
	}
	if len(high.Items) != 200 {
		t.Errorf("Clamped page should hold the last 200 items, got %d", len(high.Items))
	}
}

func TestPageVideosCoverEveryRecordExactlyOnce(t *testing.T) {
	st := newMemStore()
	ctrl := newTestController(st, &fakeEnricher{})
	ctx := context.Background()
	largeListingSession(t, st, "s1", 1200)

	var all []VideoItem
	for p := 1; p <= 3; p++ {
		page, err := ctrl.PageVideos(ctx, "s1", p)
		if err != nil {
			t.Fatalf("PageVideos(%d) failed: %v", p, err)
		}
		all = append(all, page.Items...)
	}

	if len(all) != 1200 {
		t.Fatalf("Expected all 1200 records across pages, got %d", len(all))
	}
	for i, item := range all {
		if item.Index != i+1 {
			t.Fatalf("Position %d: expected absolute index %d, got %d", i, i+1, item.Index)
		}
		if want := fmt.Sprintf("Video %04d", i); item.Title != want {
			t.Fatalf("Position %d: expected %q, got %q", i, want, item.Title)
		}
	}
}

func TestPageVideosEmptySession(t *testing.T) {
	st := newMemStore()
	ctrl := newTestController(st, &fakeEnricher{})

	page, err := ctrl.PageVideos(context.Background(), "missing", 2)
	if err != nil {
		t.Fatalf("PageVideos failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(page.Items))
	}
	if page.Page != 1 {
		t.Errorf("Expected page 1 for an empty listing, got %d", page.Page)
	}
	if page.PageSize != models.DefaultPageSize {
		t.Errorf("Expected default page size, got %d", page.PageSize)
	}
}
