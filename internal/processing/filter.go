// Package processing holds the pure transformation steps of the ingestion
// pipeline: filtering raw export records, batching video IDs for the lookup
// API and merging lookup results back into the filtered history.
package processing

import (
	"regexp"

	"github.com/watchtally/watchtally/internal/models"
)

// videoIDPattern extracts the v= query parameter from a watch URL
var videoIDPattern = regexp.MustCompile(`v=([^&]+)`)

// ExtractVideoID returns the video ID embedded in a watch URL, or an empty
// string when the URL carries no v= parameter
func ExtractVideoID(sourceURL string) string {
	matches := videoIDPattern.FindStringSubmatch(sourceURL)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// Filter turns raw export records into the accepted watch history plus a
// count of removed-video entries.
//
// A record is accepted only when it has both a timestamp and a source URL
// and carries no ad metadata. A timestamp that matches none of the accepted
// layouts excludes the record silently. A URL without an extractable video
// ID keeps the record with an empty ID. The removed count is independent of
// acceptance: it counts raw records with the removed-video sentinel label,
// whether or not they survive filtering.
func Filter(records []models.WatchRecord) ([]models.WatchedVideo, int) {
	videos := make([]models.WatchedVideo, 0, len(records))
	removedCount := 0

	for _, record := range records {
		if record.Label == models.RemovedVideoLabel {
			removedCount++
		}

		if record.Timestamp == "" || record.SourceURL == nil || len(record.AdMetadata) > 0 {
			continue
		}

		watchedAt, err := models.ParseWatchTime(record.Timestamp)
		if err != nil {
			continue
		}

		videos = append(videos, models.WatchedVideo{
			VideoID:       ExtractVideoID(*record.SourceURL),
			WatchedAt:     watchedAt,
			SequenceIndex: len(videos),
		})
	}

	return videos, removedCount
}
