package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-studio/backend/pkg/studio"
)

// memStore is an in-memory Store for handler tests, sharing the mutation
// rules with RedisStore.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*State
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*State)}
}

func (m *memStore) Create(_ context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.sessions[st.Token] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, token string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) mutate(token string, fn func(*State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[token]
	if !ok {
		return ErrNotFound
	}
	return fn(st)
}

func (m *memStore) SetDisplayMode(_ context.Context, token string, mode studio.DisplayMode) error {
	return m.mutate(token, func(st *State) error {
		st.DisplayMode = string(mode)
		return nil
	})
}

func (m *memStore) SetTeleprompterScript(_ context.Context, token, text string) error {
	return m.mutate(token, func(st *State) error { return applyScript(st, text) })
}

func (m *memStore) SetTeleprompterSpeed(_ context.Context, token string, percent int) error {
	return m.mutate(token, func(st *State) error {
		applySpeed(st, percent)
		return nil
	})
}

func (m *memStore) SetRecording(_ context.Context, token string, active bool, durationMs int64) error {
	return m.mutate(token, func(st *State) error {
		st.RecordingActive = active
		if durationMs > 0 {
			st.RecordingDurationMs = durationMs
		}
		return nil
	})
}

func (m *memStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memStore) TokenForBooking(_ context.Context, bookingID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, st := range m.sessions {
		if st.BookingID == bookingID {
			return tok, nil
		}
	}
	return "", nil
}

func newTestRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/customer/status/:token", h.Status)
	r.PUT("/customer/:token/teleprompter/script", h.UpdateScript)
	r.PUT("/customer/:token/teleprompter/speed", h.UpdateSpeed)
	r.PUT("/customer/:token/display-mode", h.UpdateMode)
	return r
}

func seedSession(t *testing.T, store Store, mode studio.DisplayMode) *State {
	t.Helper()
	st := &State{
		Token:                   "tok-1",
		BookingID:               uuid.New(),
		DisplayMode:             string(mode),
		TeleprompterScrollSpeed: studio.DefaultScrollSpeed,
		Booking:                 studio.BookingInfo{CustomerName: "Ada"},
	}
	require.NoError(t, store.Create(context.Background(), st))
	return st
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusReturnsSnapshot(t *testing.T) {
	store := newMemStore()
	seedSession(t, store, studio.ModePodcast)
	r := newTestRouter(store)

	w := doJSON(r, http.MethodGet, "/customer/status/tok-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool                  `json:"success"`
		Data    studio.CustomerStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, studio.ModePodcast, env.Data.Mode())
	assert.Equal(t, "Ada", env.Data.Booking.CustomerName)
}

func TestStatusUnknownTokenIs404(t *testing.T) {
	r := newTestRouter(newMemStore())
	w := doJSON(r, http.MethodGet, "/customer/status/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "session not found")
}

func TestUpdateSpeedClampsOutOfRange(t *testing.T) {
	store := newMemStore()
	seedSession(t, store, studio.ModeTeleprompter)
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPut, "/customer/tok-1/teleprompter/speed", SpeedRequest{Percent: 400})
	require.Equal(t, http.StatusOK, w.Code)

	st, err := store.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, studio.MaxScrollSpeed, st.TeleprompterScrollSpeed)
}

func TestUpdateScriptRequiresTeleprompterMode(t *testing.T) {
	store := newMemStore()
	seedSession(t, store, studio.ModePodcast)
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPut, "/customer/tok-1/teleprompter/script", ScriptRequest{Text: "hello"})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, store.SetDisplayMode(context.Background(), "tok-1", studio.ModeTeleprompter))
	w = doJSON(r, http.MethodPut, "/customer/tok-1/teleprompter/script", ScriptRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	st, err := store.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", st.TeleprompterScript)
}

func TestUpdateModeRejectsUnknownMode(t *testing.T) {
	store := newMemStore()
	seedSession(t, store, studio.ModePodcast)
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPut, "/customer/tok-1/display-mode", ModeRequest{Mode: "hologram"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/customer/tok-1/display-mode", ModeRequest{Mode: "webinar"})
	require.Equal(t, http.StatusOK, w.Code)
	st, err := store.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, string(studio.ModeWebinar), st.DisplayMode)
}

func TestMutationsOnInvalidTokenAre404(t *testing.T) {
	r := newTestRouter(newMemStore())
	w := doJSON(r, http.MethodPut, "/customer/gone/teleprompter/speed", SpeedRequest{Percent: 50})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPut, "/customer/gone/display-mode", ModeRequest{Mode: "podcast"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
