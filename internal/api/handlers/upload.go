package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/controllers"
	"github.com/watchtally/watchtally/internal/models"
)

// maxUploadBytes caps the accepted export file size
const maxUploadBytes = 256 * 1024 * 1024

// Enqueuer hands a session off for background processing
type Enqueuer interface {
	Enqueue(sessionID string) error
}

// UploadHandler handles watch-history upload requests
type UploadHandler struct {
	pipelineCtrl *controllers.PipelineController
	worker       Enqueuer
	logger       *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(pipelineCtrl *controllers.PipelineController, worker Enqueuer, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		pipelineCtrl: pipelineCtrl,
		worker:       worker,
		logger:       logger,
	}
}

// ServeHTTP handles the upload endpoint. The filter runs synchronously; the
// rest of the pipeline is scheduled in the background and the response
// returns before enrichment begins.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, hadCookie := resolveSessionID(r)
	if sessionID == "" {
		sessionID = newSessionID()
	}
	if !hadCookie {
		setSessionCookie(w, sessionID)
	}

	payload, err := readUpload(r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read upload")
		writeError(w, http.StatusBadRequest, "input", err.Error())
		return
	}

	session, err := h.pipelineCtrl.Upload(r.Context(), sessionID, payload)
	if err != nil {
		h.respondUploadError(w, sessionID, err)
		return
	}

	if err := h.worker.Enqueue(sessionID); err != nil {
		h.logger.WithError(err).Error("Failed to schedule pipeline")
		writeError(w, http.StatusInternalServerError, "internal", "Failed to schedule processing.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"sessionId":         sessionID,
		"state":             session.State,
		"removedVideoCount": session.RemovedVideoCount,
	})
}

// readUpload extracts the export file bytes from a multipart form, falling
// back to the raw request body
func readUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("no file provided")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}

func (h *UploadHandler) respondUploadError(w http.ResponseWriter, sessionID string, err error) {
	var inputErr *models.InputError
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &inputErr):
		h.logger.WithField("session_id", sessionID).WithError(err).Warn("Upload rejected")
		writeError(w, http.StatusBadRequest, "input", inputErr.Message)
	case errors.As(err, &validationErr):
		h.logger.WithField("session_id", sessionID).WithError(err).Warn("Upload rejected")
		writeError(w, http.StatusBadRequest, "validation", validationErr.Error())
	default:
		h.logger.WithField("session_id", sessionID).WithError(err).Error("Upload failed")
		writeError(w, http.StatusInternalServerError, "internal", "An unexpected error occurred while loading data.")
	}
}
