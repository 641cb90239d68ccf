package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-studio/backend/internal/models"
	"github.com/lumen-studio/backend/internal/sessions"
	"github.com/lumen-studio/backend/pkg/queue"
	"github.com/lumen-studio/backend/pkg/studio"
)

type fakeStore struct {
	state *sessions.State
}

func (f *fakeStore) Create(context.Context, *sessions.State) error { return nil }

func (f *fakeStore) Get(_ context.Context, token string) (*sessions.State, error) {
	if f.state == nil || f.state.Token != token {
		return nil, sessions.ErrNotFound
	}
	cp := *f.state
	return &cp, nil
}

func (f *fakeStore) SetDisplayMode(context.Context, string, studio.DisplayMode) error { return nil }
func (f *fakeStore) SetTeleprompterScript(context.Context, string, string) error      { return nil }
func (f *fakeStore) SetTeleprompterSpeed(context.Context, string, int) error          { return nil }

func (f *fakeStore) SetRecording(_ context.Context, token string, active bool, durationMs int64) error {
	if f.state == nil || f.state.Token != token {
		return sessions.ErrNotFound
	}
	f.state.RecordingActive = active
	if durationMs > 0 {
		f.state.RecordingDurationMs = durationMs
	}
	return nil
}

func (f *fakeStore) Delete(context.Context, string) error { return nil }
func (f *fakeStore) TokenForBooking(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

type fakeRecordings struct {
	created []*models.Recording
}

func (f *fakeRecordings) Create(_ context.Context, rec *models.Recording) error {
	rec.ID = uuid.New()
	f.created = append(f.created, rec)
	return nil
}

type fakeQueue struct {
	jobs []queue.RecordingIngestPayload
}

func (f *fakeQueue) EnqueueRecordingIngest(_ context.Context, p queue.RecordingIngestPayload) error {
	f.jobs = append(f.jobs, p)
	return nil
}

func postEvent(h *WebhookHandler, body EventPayload) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/recorder", h.Event)
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/recorder", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookStartedMarksRecordingActive(t *testing.T) {
	store := &fakeStore{state: &sessions.State{Token: "tok-1", BookingID: uuid.New()}}
	h := NewWebhookHandler(store, &fakeRecordings{}, &fakeQueue{}, nil)

	w := postEvent(h, EventPayload{Token: "tok-1", Event: EventStarted})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.state.RecordingActive)
}

func TestWebhookFinishedEnqueuesIngest(t *testing.T) {
	bookingID := uuid.New()
	store := &fakeStore{state: &sessions.State{Token: "tok-1", BookingID: bookingID, RecordingActive: true}}
	recs := &fakeRecordings{}
	q := &fakeQueue{}
	h := NewWebhookHandler(store, recs, q, nil)

	w := postEvent(h, EventPayload{
		Token:      "tok-1",
		Event:      EventFinished,
		DurationMs: 90_000,
		FileURL:    "http://recorder.local/takes/1.mp4",
		FileSize:   1 << 20,
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.False(t, store.state.RecordingActive)
	assert.EqualValues(t, 90_000, store.state.RecordingDurationMs)

	require.Len(t, recs.created, 1)
	assert.Equal(t, models.RecordingStatusProcessing, recs.created[0].Status)
	require.Len(t, q.jobs, 1)
	assert.Equal(t, bookingID, q.jobs[0].BookingID)
	assert.Equal(t, recs.created[0].ID, q.jobs[0].RecordingID)
	assert.Equal(t, "http://recorder.local/takes/1.mp4", q.jobs[0].SourceURL)
}

func TestWebhookFinishedWithoutFileSkipsIngest(t *testing.T) {
	store := &fakeStore{state: &sessions.State{Token: "tok-1", BookingID: uuid.New(), RecordingActive: true}}
	recs := &fakeRecordings{}
	q := &fakeQueue{}
	h := NewWebhookHandler(store, recs, q, nil)

	w := postEvent(h, EventPayload{Token: "tok-1", Event: EventFinished})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recs.created)
	assert.Empty(t, q.jobs)
}

func TestWebhookUnknownSessionIs404(t *testing.T) {
	h := NewWebhookHandler(&fakeStore{}, &fakeRecordings{}, &fakeQueue{}, nil)
	w := postEvent(h, EventPayload{Token: "gone", Event: EventStarted})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookUnknownEventIs400(t *testing.T) {
	store := &fakeStore{state: &sessions.State{Token: "tok-1"}}
	h := NewWebhookHandler(store, &fakeRecordings{}, &fakeQueue{}, nil)
	w := postEvent(h, EventPayload{Token: "tok-1", Event: "rebooted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
