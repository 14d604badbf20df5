package models

import (
	"testing"
	"time"
)

func TestParseWatchTimeVariants(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2023-10-12T04:17:43.284Z", time.Date(2023, 10, 12, 4, 17, 43, 284000000, time.UTC)},
		{"2023-10-12T04:17:43.284", time.Date(2023, 10, 12, 4, 17, 43, 284000000, time.UTC)},
		{"2023-10-02T02:03:30Z", time.Date(2023, 10, 2, 2, 3, 30, 0, time.UTC)},
		{"2023-10-02T02:03:30", time.Date(2023, 10, 2, 2, 3, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseWatchTime(tt.value)
		if err != nil {
			t.Errorf("ParseWatchTime(%q) failed: %v", tt.value, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseWatchTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseWatchTimeRejectsUnknownFormats(t *testing.T) {
	for _, value := range []string{"", "12/31/2023", "2023-10-12", "yesterday"} {
		if _, err := ParseWatchTime(value); err == nil {
			t.Errorf("ParseWatchTime(%q) should fail", value)
		}
	}
}

func TestWatchedVideoCompactRoundTrip(t *testing.T) {
	watchedAt, err := ParseWatchTime("2024-01-30T02:52:57.611Z")
	if err != nil {
		t.Fatalf("Failed to parse timestamp: %v", err)
	}

	original := WatchedVideo{VideoID: "t8hcJtyNRAk", WatchedAt: watchedAt, SequenceIndex: 7}

	encoded := original.EncodeCompact()
	parsed, err := ParseWatchedVideo(encoded)
	if err != nil {
		t.Fatalf("Failed to parse compact form %q: %v", encoded, err)
	}

	if parsed.VideoID != original.VideoID {
		t.Errorf("VideoID mismatch: %q != %q", parsed.VideoID, original.VideoID)
	}
	if !parsed.WatchedAt.Equal(original.WatchedAt) {
		t.Errorf("WatchedAt mismatch: %v != %v", parsed.WatchedAt, original.WatchedAt)
	}
	if parsed.SequenceIndex != original.SequenceIndex {
		t.Errorf("SequenceIndex mismatch: %d != %d", parsed.SequenceIndex, original.SequenceIndex)
	}

	// Idempotent: re-encoding the parsed record yields the same string
	if reencoded := parsed.EncodeCompact(); reencoded != encoded {
		t.Errorf("Re-encoding changed the compact form: %q != %q", reencoded, encoded)
	}
}

func TestWatchedVideoCompactEmptyID(t *testing.T) {
	watchedAt, _ := ParseWatchTime("2023-10-02T02:03:30Z")
	original := WatchedVideo{VideoID: "", WatchedAt: watchedAt}

	parsed, err := ParseWatchedVideo(original.EncodeCompact())
	if err != nil {
		t.Fatalf("Failed to parse compact form: %v", err)
	}
	if parsed.VideoID != "" {
		t.Errorf("Expected empty video ID, got %q", parsed.VideoID)
	}
}

func TestParseWatchedVideoWithoutSequence(t *testing.T) {
	parsed, err := ParseWatchedVideo("abc|2023-10-02T02:03:30.000Z")
	if err != nil {
		t.Fatalf("Two-field compact form should parse: %v", err)
	}
	if parsed.SequenceIndex != 0 {
		t.Errorf("Expected default sequence 0, got %d", parsed.SequenceIndex)
	}
}

func TestParseWatchedVideoMalformed(t *testing.T) {
	for _, encoded := range []string{"", "abc", "abc|notatime|0", "a|2023-10-02T02:03:30.000Z|x", "a|b|c|d"} {
		if _, err := ParseWatchedVideo(encoded); err == nil {
			t.Errorf("ParseWatchedVideo(%q) should fail", encoded)
		}
	}
}

func TestWatchRecordValidate(t *testing.T) {
	valid := WatchRecord{
		Category:  "YouTube",
		Label:     "Watched something",
		Timestamp: "2023-10-02T02:03:30Z",
		Tags:      []string{"YouTube"},
	}
	if issues := valid.Validate(); len(issues) != 0 {
		t.Errorf("Valid record reported issues: %v", issues)
	}

	missing := WatchRecord{Timestamp: "2023-10-02T02:03:30Z"}
	if issues := missing.Validate(); len(issues) != 2 {
		t.Errorf("Expected 2 issues for missing header and title, got %v", issues)
	}

	wrongProduct := valid
	wrongProduct.Tags = []string{"Maps"}
	if issues := wrongProduct.Validate(); len(issues) != 1 {
		t.Errorf("Expected 1 issue for unrecognized product tag, got %v", issues)
	}

	// Missing timestamp is a filter concern, not a validation failure
	noTimestamp := valid
	noTimestamp.Timestamp = ""
	if issues := noTimestamp.Validate(); len(issues) != 0 {
		t.Errorf("Missing timestamp should not be a validation issue: %v", issues)
	}
}

func TestValidateRecordsReportsPositions(t *testing.T) {
	records := []WatchRecord{
		{Category: "YouTube", Label: "ok", Timestamp: "2023-10-02T02:03:30Z"},
		{Category: "YouTube", Timestamp: "2023-10-02T02:03:30Z"},
	}

	err := ValidateRecords(records)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if len(validationErr.Issues) != 1 {
		t.Errorf("Expected 1 issue, got %v", validationErr.Issues)
	}
}
