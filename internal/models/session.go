package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion versions the serialized session document
const SchemaVersion = 1

// Session holds the full pipeline state for one upload-to-analytics
// lifecycle, keyed by an opaque session ID. It is the unit persisted to the
// session store after every stage.
type Session struct {
	ID                string
	FilteredData      []string // compact WatchedVideo strings
	CompleteData      []WatchRow
	RemovedVideoCount int
	PageNum           int
	UniqueVideos      []VideoKey
	NumOfPages        int
	MaxRows           int
	State             SessionState
	StateObserved     bool
	ErrorMessage      string
}

// NewSession creates an empty session in the not-started state
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		PageNum: 1,
		MaxRows: DefaultPageSize,
		State:   StateNotStarted,
	}
}

// BeginProcessing resets the session for a fresh upload: error cleared,
// state set to requesting_data, not yet observed by any poll
func (s *Session) BeginProcessing() {
	s.State = StateRequestingData
	s.StateObserved = false
	s.ErrorMessage = ""
}

// Advance moves the session to the next pipeline state. States only move
// forward; a backward or repeated transition is a programming error.
func (s *Session) Advance(next SessionState) error {
	if stateOrder[next] <= stateOrder[s.State] {
		return fmt.Errorf("invalid state transition %s -> %s", s.State, next)
	}
	s.State = next
	s.StateObserved = false
	return nil
}

// Observe marks the current state as seen by a status poll and reports
// whether this poll was the first to see it
func (s *Session) Observe() bool {
	first := !s.StateObserved
	s.StateObserved = true
	return first
}

// Fail records a background failure. The pipeline halts; the message is only
// cleared by a fresh upload creating a new session.
func (s *Session) Fail(message string) {
	s.ErrorMessage = message
}

// HasError reports whether the session is stalled on a recorded failure
func (s *Session) HasError() bool {
	return s.ErrorMessage != ""
}

// SetWatchedVideos stores the filtered records in their compact form
func (s *Session) SetWatchedVideos(videos []WatchedVideo) {
	encoded := make([]string, 0, len(videos))
	for _, video := range videos {
		encoded = append(encoded, video.EncodeCompact())
	}
	s.FilteredData = encoded
}

// WatchedVideos decodes the stored filtered records
func (s *Session) WatchedVideos() ([]WatchedVideo, error) {
	videos := make([]WatchedVideo, 0, len(s.FilteredData))
	for _, encoded := range s.FilteredData {
		video, err := ParseWatchedVideo(encoded)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// Wire schema. The merged dataset is stored split-orient: a column list plus
// row-major data, with watch dates in the canonical millisecond Z form.

var completeDataColumns = []string{"id", "watch_date", "title", "channelTitle", "duration"}

type tableDocument struct {
	Columns []string   `json:"columns"`
	Data    [][]string `json:"data"`
}

type sessionDocument struct {
	SchemaVersion     int           `json:"schema_version"`
	FilteredData      []string      `json:"filtered_data"`
	CompleteData      tableDocument `json:"complete_data"`
	RemovedVideoCount int           `json:"removed_video_count"`
	PageNum           int           `json:"page_num"`
	UniqueVideos      []VideoKey    `json:"unique_videos"`
	NumOfPages        int           `json:"num_of_pages"`
	MaxRows           int           `json:"max_rows"`
	State             string        `json:"state"`
	StateObserved     bool          `json:"state_observed"`
	ErrorMessage      string        `json:"error_message"`
}

// MarshalDocument serializes the session to its versioned store document
func (s *Session) MarshalDocument() ([]byte, error) {
	table := tableDocument{
		Columns: completeDataColumns,
		Data:    make([][]string, 0, len(s.CompleteData)),
	}
	for _, row := range s.CompleteData {
		table.Data = append(table.Data, []string{
			row.VideoID,
			row.WatchedAt.UTC().Format(WatchTimeFormat),
			row.Title,
			row.Channel,
			row.Duration,
		})
	}

	doc := sessionDocument{
		SchemaVersion:     SchemaVersion,
		FilteredData:      s.FilteredData,
		CompleteData:      table,
		RemovedVideoCount: s.RemovedVideoCount,
		PageNum:           s.PageNum,
		UniqueVideos:      s.UniqueVideos,
		NumOfPages:        s.NumOfPages,
		MaxRows:           s.MaxRows,
		State:             string(s.State),
		StateObserved:     s.StateObserved,
		ErrorMessage:      s.ErrorMessage,
	}

	return json.Marshal(doc)
}

// UnmarshalSession deserializes a store document back into a session
func UnmarshalSession(id string, data []byte) (*Session, error) {
	var doc sessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode session document: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported session schema version %d", doc.SchemaVersion)
	}

	state := StateNotStarted
	if doc.State != "" {
		parsed, err := ParseSessionState(doc.State)
		if err != nil {
			return nil, err
		}
		state = parsed
	}

	rows := make([]WatchRow, 0, len(doc.CompleteData.Data))
	for _, values := range doc.CompleteData.Data {
		if len(values) != len(completeDataColumns) {
			return nil, fmt.Errorf("merged dataset row has %d columns, want %d", len(values), len(completeDataColumns))
		}
		watchedAt, err := time.Parse(WatchTimeFormat, values[1])
		if err != nil {
			return nil, fmt.Errorf("malformed watch date %q: %w", values[1], err)
		}
		rows = append(rows, WatchRow{
			VideoID:   values[0],
			WatchedAt: watchedAt.UTC(),
			Title:     values[2],
			Channel:   values[3],
			Duration:  values[4],
		})
	}

	session := &Session{
		ID:                id,
		FilteredData:      doc.FilteredData,
		CompleteData:      rows,
		RemovedVideoCount: doc.RemovedVideoCount,
		PageNum:           doc.PageNum,
		UniqueVideos:      doc.UniqueVideos,
		NumOfPages:        doc.NumOfPages,
		MaxRows:           doc.MaxRows,
		State:             state,
		StateObserved:     doc.StateObserved,
		ErrorMessage:      doc.ErrorMessage,
	}
	if session.MaxRows <= 0 {
		session.MaxRows = DefaultPageSize
	}
	if session.PageNum <= 0 {
		session.PageNum = 1
	}

	return session, nil
}
