package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/controllers"
	"github.com/watchtally/watchtally/internal/store"
)

// AnalyticsHandler serves the derived analytics context
type AnalyticsHandler struct {
	pipelineCtrl *controllers.PipelineController
	logger       *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(pipelineCtrl *controllers.PipelineController, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		pipelineCtrl: pipelineCtrl,
		logger:       logger,
	}
}

// ServeHTTP handles the analytics endpoint. Requires a completed session.
func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, _ := resolveSessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "input", "Session not found. Upload data first.")
		return
	}

	context, err := h.pipelineCtrl.Analytics(r.Context(), sessionID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusBadRequest, "input", "Session not found. Upload data first.")
		return
	case errors.Is(err, controllers.ErrNotReady):
		writeError(w, http.StatusConflict, "state", "Analytics are not ready yet.")
		return
	default:
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to build analytics context")
		writeError(w, http.StatusInternalServerError, "internal", "Failed to build analytics.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"analytics": context,
	})
}
