package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/controllers"
)

// StatusHandler handles pipeline status polls
type StatusHandler struct {
	pipelineCtrl *controllers.PipelineController
	logger       *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(pipelineCtrl *controllers.PipelineController, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		pipelineCtrl: pipelineCtrl,
		logger:       logger,
	}
}

// ServeHTTP handles the status endpoint. Polls are idempotent apart from the
// one-shot observation of the complete state.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, _ := resolveSessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "input", "Session not found. Upload data first.")
		return
	}

	report, err := h.pipelineCtrl.Status(r.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Status poll failed")
		writeError(w, http.StatusInternalServerError, "internal", "Failed to read session status.")
		return
	}

	payload := map[string]interface{}{
		"sessionId":         report.SessionID,
		"state":             report.State,
		"removedVideoCount": report.RemovedVideoCount,
		"hasFilteredData":   report.HasFilteredData,
	}

	if report.Error != "" {
		payload["error"] = report.Error
		writeJSON(w, http.StatusBadRequest, payload)
		return
	}

	if report.Ready {
		payload["ready"] = true
	}

	writeJSON(w, http.StatusOK, payload)
}
