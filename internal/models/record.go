package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WatchTimeFormat is the canonical serialized form of a watch timestamp:
// ISO-8601 with milliseconds and a trailing Z
const WatchTimeFormat = "2006-01-02T15:04:05.000Z"

// watchTimeLayouts lists accepted input timestamp layouts in match order,
// covering the with/without fractional seconds and with/without Z variants
// seen in real export files
var watchTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseWatchTime parses an exported timestamp against the accepted layouts.
// The result is truncated to millisecond precision so that the canonical
// serialized form round-trips exactly.
func ParseWatchTime(value string) (time.Time, error) {
	for _, layout := range watchTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// AdDetail is one named detail attached to an export entry. Presence of any
// details marks the entry as a sponsored/ad impression.
type AdDetail struct {
	Name string `json:"name"`
}

// WatchRecord is one raw entry from an exported watch-history file,
// shaped like a Google Takeout activity record
type WatchRecord struct {
	Category         string     `json:"header"`
	Label            string     `json:"title"`
	SourceURL        *string    `json:"titleUrl,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Timestamp        string     `json:"time"`
	Tags             []string   `json:"products,omitempty"`
	AdMetadata       []AdDetail `json:"details,omitempty"`
	ActivityControls []string   `json:"activityControls,omitempty"`
}

// Validate checks the record against the export schema and returns a list of
// issues, empty when the record is acceptable. A missing timestamp or source
// URL is not an issue here; those records are dropped by the filter instead.
func (r WatchRecord) Validate() []string {
	var issues []string
	if r.Category == "" {
		issues = append(issues, "missing header")
	}
	if r.Label == "" {
		issues = append(issues, "missing title")
	}
	if len(r.Tags) > 0 {
		recognized := false
		for _, tag := range r.Tags {
			if tag == RecognizedProductTag {
				recognized = true
				break
			}
		}
		if !recognized {
			issues = append(issues, "no recognized product tag")
		}
	}
	return issues
}

// ValidateRecords validates an uploaded batch, reporting issues by position
func ValidateRecords(records []WatchRecord) error {
	var issues []string
	for i, record := range records {
		for _, issue := range record.Validate() {
			issues = append(issues, fmt.Sprintf("record %d: %s", i, issue))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// WatchedVideo is one accepted watch-history entry: the record had a
// timestamp and a source URL and carried no ad metadata. VideoID is empty
// when no v= parameter could be extracted from the URL.
type WatchedVideo struct {
	VideoID       string
	WatchedAt     time.Time
	SequenceIndex int
}

// EncodeCompact serializes the video to its compact storage form:
// "<id>|<timestamp>|<sequence>"
func (v WatchedVideo) EncodeCompact() string {
	return v.VideoID + "|" + v.WatchedAt.UTC().Format(WatchTimeFormat) + "|" + strconv.Itoa(v.SequenceIndex)
}

// ParseWatchedVideo parses the compact storage form produced by
// EncodeCompact. The sequence field is optional for older documents.
func ParseWatchedVideo(encoded string) (WatchedVideo, error) {
	parts := strings.Split(encoded, "|")
	if len(parts) != 2 && len(parts) != 3 {
		return WatchedVideo{}, fmt.Errorf("malformed watched video %q", encoded)
	}

	watchedAt, err := time.Parse(WatchTimeFormat, parts[1])
	if err != nil {
		return WatchedVideo{}, fmt.Errorf("malformed watch timestamp in %q: %w", encoded, err)
	}

	video := WatchedVideo{
		VideoID:   parts[0],
		WatchedAt: watchedAt.UTC(),
	}

	if len(parts) == 3 {
		seq, err := strconv.Atoi(parts[2])
		if err != nil {
			return WatchedVideo{}, fmt.Errorf("malformed sequence index in %q: %w", encoded, err)
		}
		video.SequenceIndex = seq
	}

	return video, nil
}

// VideoInfo is the lookup API metadata for one video ID
type VideoInfo struct {
	ID       string
	Title    string
	Channel  string
	Duration string // ISO-8601-style duration code, e.g. PT1H30M15S
}

// WatchRow joins a watched video with its lookup metadata. Rows only exist
// with non-empty title, channel and duration.
type WatchRow struct {
	VideoID   string
	WatchedAt time.Time
	Title     string
	Channel   string
	Duration  string
}

// VideoKey identifies a unique (title, channel) pair for the paginated listing
type VideoKey struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
}
