// Package recorder receives status events from the studio recorder device.
// The recorder owns the recording state; this webhook projects it into the
// live session so polling surfaces observe it, and hands finished takes to
// the ingest worker.
package recorder

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/internal/models"
	"github.com/lumen-studio/backend/internal/sessions"
	"github.com/lumen-studio/backend/pkg/queue"
	"github.com/lumen-studio/backend/pkg/response"
)

// Recorder event kinds.
const (
	EventStarted  = "started"
	EventProgress = "progress"
	EventStopped  = "stopped"
	EventFinished = "finished"
)

// EventPayload is the body the recorder device posts to
// POST /webhooks/recorder.
type EventPayload struct {
	Token      string `json:"token" binding:"required"`
	Event      string `json:"event" binding:"required"`
	DurationMs int64  `json:"duration_ms"`
	FileURL    string `json:"file_url"`
	FileSize   int64  `json:"file_size"`
}

type recordingCreator interface {
	Create(ctx context.Context, rec *models.Recording) error
}

type ingestEnqueuer interface {
	EnqueueRecordingIngest(ctx context.Context, payload queue.RecordingIngestPayload) error
}

// WebhookHandler handles recorder device webhooks.
type WebhookHandler struct {
	store      sessions.Store
	recordings recordingCreator
	queue      ingestEnqueuer
	logger     *zap.Logger
}

// NewWebhookHandler creates a recorder webhook handler.
func NewWebhookHandler(store sessions.Store, recordings recordingCreator, q ingestEnqueuer, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{store: store, recordings: recordings, queue: q, logger: logger}
}

// Event handles POST /webhooks/recorder.
func (h *WebhookHandler) Event(c *gin.Context) {
	var body EventPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	st, err := h.store.Get(ctx, body.Token)
	if err == sessions.ErrNotFound {
		response.NotFound(c, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("load session failed", zap.Error(err))
		response.Internal(c, "failed to load session")
		return
	}

	switch body.Event {
	case EventStarted:
		err = h.store.SetRecording(ctx, body.Token, true, 0)
	case EventProgress:
		err = h.store.SetRecording(ctx, body.Token, true, body.DurationMs)
	case EventStopped:
		err = h.store.SetRecording(ctx, body.Token, false, body.DurationMs)
	case EventFinished:
		err = h.finish(ctx, st, body)
	default:
		response.BadRequest(c, "unknown event: "+body.Event)
		return
	}
	if err != nil {
		h.logger.Error("recorder event failed", zap.Error(err), zap.String("event", body.Event))
		response.Internal(c, "failed to process event")
		return
	}

	h.logger.Info("recorder event processed",
		zap.String("event", body.Event),
		zap.String("booking_id", st.BookingID.String()),
	)
	response.OK(c, gin.H{"processed": true})
}

func (h *WebhookHandler) finish(ctx context.Context, st *sessions.State, body EventPayload) error {
	if err := h.store.SetRecording(ctx, st.Token, false, body.DurationMs); err != nil {
		return err
	}
	if body.FileURL == "" {
		// Take discarded on the device; nothing to ingest.
		return nil
	}
	rec := &models.Recording{
		BookingID:  st.BookingID,
		SourceURL:  body.FileURL,
		DurationMs: body.DurationMs,
		FileSize:   body.FileSize,
		Status:     models.RecordingStatusProcessing,
	}
	if err := h.recordings.Create(ctx, rec); err != nil {
		return err
	}
	return h.queue.EnqueueRecordingIngest(ctx, queue.RecordingIngestPayload{
		RecordingID: rec.ID,
		BookingID:   st.BookingID,
		SourceURL:   body.FileURL,
		DurationMs:  body.DurationMs,
	})
}
