package processing

import "github.com/watchtally/watchtally/internal/models"

// Merge left-joins the filtered history with the lookup results on video ID.
// Rows missing a title, channel or duration after the join are dropped
// silently; that is data-quality filtering, not an error. When the lookup
// results contain duplicate IDs the first occurrence wins.
func Merge(videos []models.WatchedVideo, infos []models.VideoInfo) []models.WatchRow {
	byID := make(map[string]models.VideoInfo, len(infos))
	for _, info := range infos {
		if _, ok := byID[info.ID]; ok {
			continue
		}
		byID[info.ID] = info
	}

	rows := make([]models.WatchRow, 0, len(videos))
	for _, video := range videos {
		info, ok := byID[video.VideoID]
		if !ok {
			continue
		}
		if info.Title == "" || info.Channel == "" || info.Duration == "" {
			continue
		}
		rows = append(rows, models.WatchRow{
			VideoID:   video.VideoID,
			WatchedAt: video.WatchedAt,
			Title:     info.Title,
			Channel:   info.Channel,
			Duration:  info.Duration,
		})
	}

	return rows
}
