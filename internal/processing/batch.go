package processing

import "github.com/watchtally/watchtally/internal/models"

// BatchIDs deduplicates the video IDs of the filtered history and splits
// them into fixed-size batches for concurrent lookup calls. Videos without
// an extracted ID are skipped. Batch membership order is not significant.
func BatchIDs(videos []models.WatchedVideo, batchSize int) [][]string {
	if batchSize <= 0 {
		batchSize = models.EnrichBatchSize
	}

	seen := make(map[string]struct{}, len(videos))
	unique := make([]string, 0, len(videos))
	for _, video := range videos {
		if video.VideoID == "" {
			continue
		}
		if _, ok := seen[video.VideoID]; ok {
			continue
		}
		seen[video.VideoID] = struct{}{}
		unique = append(unique, video.VideoID)
	}

	var batches [][]string
	for start := 0; start < len(unique); start += batchSize {
		end := start + batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batches = append(batches, unique[start:end])
	}

	return batches
}
