package models

import "fmt"

// SessionState represents a stage of the ingestion pipeline
type SessionState string

const (
	StateNotStarted          SessionState = "not_started"
	StateRequestingData      SessionState = "requesting_data"
	StateGeneratingAnalytics SessionState = "generating_analytics"
	StateComplete            SessionState = "complete"
)

// stateOrder defines the strict forward order of pipeline states
var stateOrder = map[SessionState]int{
	StateNotStarted:          0,
	StateRequestingData:      1,
	StateGeneratingAnalytics: 2,
	StateComplete:            3,
}

// ParseSessionState validates a state tag read from the store
func ParseSessionState(tag string) (SessionState, error) {
	state := SessionState(tag)
	if _, ok := stateOrder[state]; !ok {
		return "", fmt.Errorf("unknown session state %q", tag)
	}
	return state, nil
}

// IsTerminal reports whether the state ends automatic progression
func (s SessionState) IsTerminal() bool {
	return s == StateComplete
}

// DefaultPageSize is the fixed page size for the unique-video listing
const DefaultPageSize = 500

// EnrichBatchSize is the maximum number of video IDs per lookup API call
const EnrichBatchSize = 50

// RemovedVideoLabel is the sentinel title of an entry whose video was taken down
const RemovedVideoLabel = "Watched a video that has been removed"

// RecognizedProductTag marks an export entry as belonging to the watch history
const RecognizedProductTag = "YouTube"
