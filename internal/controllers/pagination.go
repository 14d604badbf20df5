package controllers

import "context"

// VideoItem is one row of the paginated unique-video listing
type VideoItem struct {
	Index   int    `json:"index"` // 1-based absolute position in the listing
	Title   string `json:"title"`
	Channel string `json:"channel"`
}

// VideoPage is one window over the unique-video listing
type VideoPage struct {
	Items        []VideoItem
	Page         int
	TotalPages   int
	PageSize     int
	TotalRecords int
	StartIndex   int
}

// PageVideos returns the requested page of the unique-video listing. The
// page number is clamped to the valid range; the resolved page is persisted
// back to the session as its current page.
func (c *PipelineController) PageVideos(ctx context.Context, sessionID string, page int) (*VideoPage, error) {
	session := c.ensureSession(ctx, sessionID)

	if len(session.UniqueVideos) == 0 {
		return &VideoPage{Page: 1, PageSize: session.MaxRows}, nil
	}

	totalPages := session.NumOfPages
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * session.MaxRows
	end := start + session.MaxRows
	if end > len(session.UniqueVideos) {
		end = len(session.UniqueVideos)
	}

	session.PageNum = page
	if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
		return nil, err
	}

	items := make([]VideoItem, 0, end-start)
	for i, video := range session.UniqueVideos[start:end] {
		items = append(items, VideoItem{
			Index:   start + i + 1,
			Title:   video.Title,
			Channel: video.Channel,
		})
	}

	return &VideoPage{
		Items:        items,
		Page:         page,
		TotalPages:   totalPages,
		PageSize:     session.MaxRows,
		TotalRecords: len(session.UniqueVideos),
		StartIndex:   start,
	}, nil
}
