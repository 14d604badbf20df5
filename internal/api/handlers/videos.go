package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/controllers"
)

// VideosHandler serves the paginated unique-video listing
type VideosHandler struct {
	pipelineCtrl *controllers.PipelineController
	logger       *logrus.Logger
}

// NewVideosHandler creates a new videos handler
func NewVideosHandler(pipelineCtrl *controllers.PipelineController, logger *logrus.Logger) *VideosHandler {
	return &VideosHandler{
		pipelineCtrl: pipelineCtrl,
		logger:       logger,
	}
}

// ServeHTTP handles the videos endpoint
func (h *VideosHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, _ := resolveSessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "input", "Session not found. Upload data first.")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input", "page must be an integer")
			return
		}
		page = parsed
	}

	videoPage, err := h.pipelineCtrl.PageVideos(r.Context(), sessionID, page)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to page videos")
		writeError(w, http.StatusInternalServerError, "internal", "Failed to list videos.")
		return
	}

	items := videoPage.Items
	if items == nil {
		items = []controllers.VideoItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":    sessionID,
		"videos":       items,
		"page":         videoPage.Page,
		"totalPages":   videoPage.TotalPages,
		"pageSize":     videoPage.PageSize,
		"totalRecords": videoPage.TotalRecords,
	})
}
