package processing

import (
	"testing"

	"github.com/watchtally/watchtally/internal/models"
)

func strPtr(s string) *string { return &s }

func watchRecord(label, timestamp string, sourceURL *string, ads []models.AdDetail) models.WatchRecord {
	return models.WatchRecord{
		Category:   "YouTube",
		Label:      label,
		SourceURL:  sourceURL,
		Timestamp:  timestamp,
		Tags:       []string{"YouTube"},
		AdMetadata: ads,
	}
}

func TestFilterScenario(t *testing.T) {
	records := []models.WatchRecord{
		watchRecord("Watched https://www.youtube.com/watch?v=abc", "2023-10-12T04:17:43.284Z", strPtr("https://www.youtube.com/watch?v=abc"), nil),
		watchRecord("Watched https://www.youtube.com/watch?v=def", "2023-10-02T02:03:30Z", strPtr("https://www.youtube.com/watch?v=def"), nil),
		watchRecord("Watched something without a link", "2023-10-02T02:03:30Z", nil, nil),
		watchRecord("Watched an ad", "2023-10-02T02:03:30Z", strPtr("https://www.youtube.com/watch?v=ghi"), []models.AdDetail{{Name: "From Google Ads"}}),
		watchRecord(models.RemovedVideoLabel, "2023-10-02T02:03:30Z", nil, nil),
	}

	videos, removed := Filter(records)

	if len(videos) != 2 {
		t.Fatalf("Expected 2 filtered videos, got %d", len(videos))
	}
	if removed != 1 {
		t.Errorf("Expected removed count 1, got %d", removed)
	}
	if videos[0].VideoID != "abc" || videos[1].VideoID != "def" {
		t.Errorf("Unexpected video IDs: %q, %q", videos[0].VideoID, videos[1].VideoID)
	}
	if videos[0].SequenceIndex != 0 || videos[1].SequenceIndex != 1 {
		t.Errorf("Sequence indexes not assigned in filter order: %d, %d", videos[0].SequenceIndex, videos[1].SequenceIndex)
	}
}

func TestFilterTimestampVariants(t *testing.T) {
	timestamps := []string{
		"2023-10-12T04:17:43.284Z",
		"2023-10-12T04:17:43.284",
		"2023-10-02T02:03:30Z",
		"2023-10-02T02:03:30",
	}

	for _, ts := range timestamps {
		records := []models.WatchRecord{
			watchRecord("Watched", ts, strPtr("https://www.youtube.com/watch?v=x"), nil),
		}
		videos, _ := Filter(records)
		if len(videos) != 1 {
			t.Errorf("Timestamp %q should be accepted", ts)
		}
	}
}

func TestFilterUnparseableTimestampExcludesRecord(t *testing.T) {
	records := []models.WatchRecord{
		watchRecord("Watched", "12/31/2023 10:00", strPtr("https://www.youtube.com/watch?v=x"), nil),
	}

	videos, removed := Filter(records)
	if len(videos) != 0 {
		t.Errorf("Expected unparseable timestamp to exclude record, got %d videos", len(videos))
	}
	if removed != 0 {
		t.Errorf("Expected removed count 0, got %d", removed)
	}
}

func TestFilterKeepsRecordWithoutExtractableID(t *testing.T) {
	records := []models.WatchRecord{
		watchRecord("Watched", "2023-10-02T02:03:30Z", strPtr("https://www.youtube.com/playlist?list=PL123"), nil),
	}

	videos, _ := Filter(records)
	if len(videos) != 1 {
		t.Fatalf("Expected record without extractable ID to be kept, got %d videos", len(videos))
	}
	if videos[0].VideoID != "" {
		t.Errorf("Expected empty video ID, got %q", videos[0].VideoID)
	}
}

func TestFilterRemovedCountIsIndependent(t *testing.T) {
	// A removed-video entry that still passes the gating rules is counted
	// AND kept in the filtered output.
	records := []models.WatchRecord{
		watchRecord(models.RemovedVideoLabel, "2023-10-02T02:03:30Z", strPtr("https://www.youtube.com/watch?v=gone"), nil),
	}

	videos, removed := Filter(records)
	if removed != 1 {
		t.Errorf("Expected removed count 1, got %d", removed)
	}
	if len(videos) != 1 {
		t.Errorf("Expected the record to be kept, got %d videos", len(videos))
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=t8hcJtyNRAk", "t8hcJtyNRAk"},
		{"https://www.youtube.com/watch?v=abc123&t=30s", "abc123"},
		{"https://www.youtube.com/watch?list=PL1&v=xyz_-9", "xyz_-9"},
		{"https://www.youtube.com/playlist?list=PL123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.url); got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
