// Package controllers owns the session lifecycle: the upload step, the
// background pipeline stages, status polling and the paginated listing.
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/analytics"
	"github.com/watchtally/watchtally/internal/models"
	"github.com/watchtally/watchtally/internal/processing"
	"github.com/watchtally/watchtally/internal/store"
)

// ErrNotReady is returned when analytics are requested before the pipeline
// reached the complete state
var ErrNotReady = errors.New("analytics are not ready yet")

const topListSize = 5

// Enricher fetches lookup metadata for batches of video IDs
type Enricher interface {
	FetchAll(ctx context.Context, batches [][]string) ([]models.VideoInfo, error)
}

// PipelineController coordinates the ingestion pipeline for one session at a
// time: filtering on upload, enrichment and merge in the background, then
// analytics derivation. Every stage persists the session before the next
// one starts.
type PipelineController struct {
	store    store.SessionStore
	enricher Enricher
	ttl      time.Duration
	logger   *logrus.Logger
}

// NewPipelineController creates a new pipeline controller
func NewPipelineController(st store.SessionStore, enricher Enricher, ttl time.Duration, logger *logrus.Logger) *PipelineController {
	return &PipelineController{
		store:    st,
		enricher: enricher,
		ttl:      ttl,
		logger:   logger,
	}
}

// Upload runs the synchronous part of the pipeline: decode and validate the
// payload, filter the records and persist a fresh session ready for
// background processing. Any prior session under the same key is deleted
// first. On input errors the failed session is persisted so later polls see
// the message, and the error is returned for the HTTP response.
func (c *PipelineController) Upload(ctx context.Context, sessionID string, payload []byte) (*models.Session, error) {
	if _, err := c.store.Load(ctx, sessionID); err == nil {
		if err := c.store.Delete(ctx, sessionID); err != nil {
			c.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to delete superseded session")
		}
	}

	session := models.NewSession(sessionID)
	session.BeginProcessing()

	records, err := decodeRecords(payload)
	if err != nil {
		c.persistFailure(ctx, session, err.Error())
		return nil, err
	}

	videos, removedCount := processing.Filter(records)
	session.SetWatchedVideos(videos)
	session.RemovedVideoCount = removedCount

	if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"records":    len(records),
		"filtered":   len(videos),
		"removed":    removedCount,
	}).Info("Upload filtered and persisted")

	return session, nil
}

func decodeRecords(payload []byte) ([]models.WatchRecord, error) {
	if len(payload) == 0 {
		return nil, models.NewInputError("uploaded file is empty")
	}

	var records []models.WatchRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, models.NewInputError("invalid JSON: %v", err)
	}
	if len(records) == 0 {
		return nil, models.NewInputError("uploaded file contains no records")
	}

	if err := models.ValidateRecords(records); err != nil {
		return nil, err
	}

	return records, nil
}

// RunPipeline executes the background stages for a session: enrichment and
// merge, then analytics derivation. Failures are persisted into the session
// and halt the pipeline; nothing is retried. Safe to run detached.
func (c *PipelineController) RunPipeline(ctx context.Context, sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"session_id": sessionID,
				"panic":      r,
			}).Error("Pipeline panicked")
			c.failSession(ctx, sessionID, "Failed to process data pipeline.")
		}
	}()

	if !c.requestData(ctx, sessionID) {
		return
	}
	c.generateAnalytics(ctx, sessionID)
}

// requestData runs stage 1: batch the filtered video IDs, fetch metadata
// concurrently and merge it into the watch history. Returns false when the
// stage failed and the pipeline must stop.
func (c *PipelineController) requestData(ctx context.Context, sessionID string) bool {
	session, err := c.store.Load(ctx, sessionID)
	if err != nil {
		c.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to load session for enrichment")
		return false
	}

	videos, err := session.WatchedVideos()
	if err != nil {
		c.failWith(ctx, session, "Stored filtered data is corrupt.", err)
		return false
	}
	if len(videos) == 0 {
		c.failWith(ctx, session, "No videos available after filtering.", nil)
		return false
	}

	batches := processing.BatchIDs(videos, models.EnrichBatchSize)
	infos, err := c.enricher.FetchAll(ctx, batches)
	if err != nil {
		c.failWith(ctx, session, "Video lookup request failed.", err)
		return false
	}

	session.CompleteData = processing.Merge(videos, infos)

	if err := session.Advance(models.StateGeneratingAnalytics); err != nil {
		c.failWith(ctx, session, "Pipeline state is inconsistent.", err)
		return false
	}

	if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
		c.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to persist enrichment result")
		return false
	}

	c.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"batches":    len(batches),
		"merged":     len(session.CompleteData),
	}).Info("Enrichment stage completed")

	return true
}

// generateAnalytics runs stage 2: derive the unique-video listing and page
// count from the merged dataset
func (c *PipelineController) generateAnalytics(ctx context.Context, sessionID string) {
	session, err := c.store.Load(ctx, sessionID)
	if err != nil {
		c.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to load session for analytics")
		return
	}

	if len(session.CompleteData) == 0 {
		c.failWith(ctx, session, "No complete data available to generate analytics.",
			&models.DataIntegrityError{Message: "merged dataset is empty"})
		return
	}

	session.PageNum = 1
	session.UniqueVideos = analytics.UniqueVideos(session.CompleteData)
	session.NumOfPages = analytics.PageCount(len(session.UniqueVideos), session.MaxRows)

	if err := session.Advance(models.StateComplete); err != nil {
		c.failWith(ctx, session, "Pipeline state is inconsistent.", err)
		return
	}

	if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
		c.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to persist analytics result")
		return
	}

	c.logger.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"unique_videos": len(session.UniqueVideos),
		"pages":         session.NumOfPages,
	}).Info("Analytics stage completed")
}

// failWith records a stage failure into the session. The message is what
// polls will show; the underlying error only goes to the log.
func (c *PipelineController) failWith(ctx context.Context, session *models.Session, message string, err error) {
	entry := c.logger.WithField("session_id", session.ID)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error("Pipeline stage failed")

	session.Fail(message)
	if saveErr := c.store.Save(ctx, session.ID, session, c.ttl); saveErr != nil {
		c.logger.WithError(saveErr).WithField("session_id", session.ID).Error("Failed to persist pipeline error")
	}
}

// failSession loads (or creates) the session and records a failure message
func (c *PipelineController) failSession(ctx context.Context, sessionID string, message string) {
	session := c.ensureSession(ctx, sessionID)
	session.Fail(message)
	if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
		c.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to persist pipeline error")
	}
}

// persistFailure saves a session that failed during upload so the error is
// visible to later polls
func (c *PipelineController) persistFailure(ctx context.Context, session *models.Session, message string) {
	session.Fail(message)
	if err := c.store.Save(ctx, session.ID, session, c.ttl); err != nil {
		c.logger.WithError(err).WithField("session_id", session.ID).Error("Failed to persist upload error")
	}
}

// ensureSession loads the session, falling back to an empty one when the
// store has no (or an expired) record
func (c *PipelineController) ensureSession(ctx context.Context, sessionID string) *models.Session {
	session, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return models.NewSession(sessionID)
	}
	return session
}

// StatusReport is the result of one status poll
type StatusReport struct {
	SessionID         string
	State             models.SessionState
	RemovedVideoCount int
	HasFilteredData   bool
	Error             string
	Ready             bool
}

// Status reports the session's progress. A recorded error is reported
// without advancing anything. The complete state is observed exactly once;
// repeated polls after that keep reporting ready. Polls may race the
// background pipeline and observe any persisted intermediate state.
func (c *PipelineController) Status(ctx context.Context, sessionID string) (*StatusReport, error) {
	session := c.ensureSession(ctx, sessionID)

	report := &StatusReport{
		SessionID:         sessionID,
		State:             session.State,
		RemovedVideoCount: session.RemovedVideoCount,
		HasFilteredData:   len(session.FilteredData) > 0,
		Error:             session.ErrorMessage,
	}

	if session.HasError() {
		return report, nil
	}

	if session.State == models.StateComplete {
		report.Ready = true
		if session.Observe() {
			if err := c.store.Save(ctx, sessionID, session, c.ttl); err != nil {
				return nil, err
			}
		}
	}

	return report, nil
}

// AnalyticsContext is the derived display context for a completed session
type AnalyticsContext struct {
	StartIndex          int                `json:"startIndex"`
	NumOfPages          int                `json:"numOfPages"`
	UniqueVideos        []models.VideoKey  `json:"uniqueVideos"`
	UniqueVideoCount    int                `json:"uniqueVideoCount"`
	TotalVideos         int                `json:"totalVideos"`
	TotalUniqueChannels int                `json:"totalUniqueChannels"`
	WatchTime           analytics.WatchTime `json:"watchTime"`
	TopChannels         []analytics.Ranked `json:"topChannels"`
	TopVideos           []analytics.Ranked `json:"topVideos"`
}

// Analytics builds the analytics context. The session must be complete.
func (c *PipelineController) Analytics(ctx context.Context, sessionID string) (*AnalyticsContext, error) {
	session, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateComplete || session.HasError() {
		return nil, ErrNotReady
	}

	durations := make([]string, 0, len(session.CompleteData))
	for _, row := range session.CompleteData {
		durations = append(durations, row.Duration)
	}

	firstPage := session.UniqueVideos
	if len(firstPage) > session.MaxRows {
		firstPage = firstPage[:session.MaxRows]
	}

	return &AnalyticsContext{
		StartIndex:          0,
		NumOfPages:          session.NumOfPages,
		UniqueVideos:        firstPage,
		UniqueVideoCount:    len(session.UniqueVideos),
		TotalVideos:         len(session.CompleteData),
		TotalUniqueChannels: analytics.UniqueChannels(session.CompleteData),
		WatchTime:           analytics.TotalWatchTime(durations),
		TopChannels:         analytics.TopChannels(session.CompleteData, topListSize),
		TopVideos:           analytics.TopVideos(session.CompleteData, topListSize),
	}, nil
}
