package studioclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-studio/backend/pkg/studioclient"
)

func TestPanelClampsSpeedBeforeTransmission(t *testing.T) {
	var mu sync.Mutex
	var sent []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Percent int `json:"percent"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		sent = append(sent, body.Percent)
		mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	p := studioclient.NewPanel(studioclient.New(srv.URL), "tok-1")
	p.SetTeleprompterSpeed(context.Background(), 150)
	p.SetTeleprompterSpeed(context.Background(), -3)
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []int{100, 1}, sent)
	assert.Equal(t, studioclient.SaveSaved, p.FieldState(studioclient.FieldSpeed))
}

func TestPanelPreviewMutationsAreNoOps(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	p := studioclient.NewPanel(studioclient.New(srv.URL), "")
	require.True(t, p.Preview())

	p.SetTeleprompterScript(context.Background(), "draft")
	p.SetTeleprompterSpeed(context.Background(), 80)
	p.SetDisplayMode(context.Background(), "webinar")
	p.Wait()

	assert.Zero(t, atomic.LoadInt64(&calls), "a preview session must never reach the backend")
	assert.Equal(t, studioclient.SaveIdle, p.FieldState(studioclient.FieldScript))
}

func TestPanelFieldsFailIndependently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/customer/tok-1/teleprompter/script" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":"session not found"}`))
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var mu sync.Mutex
	transitions := make(map[studioclient.Field][]studioclient.SaveState)
	p := studioclient.NewPanel(studioclient.New(srv.URL), "tok-1",
		studioclient.WithSaveStateListener(func(f studioclient.Field, s studioclient.SaveState) {
			mu.Lock()
			transitions[f] = append(transitions[f], s)
			mu.Unlock()
		}))

	p.SetTeleprompterScript(context.Background(), "hello")
	p.SetTeleprompterSpeed(context.Background(), 40)
	p.Wait()

	assert.Equal(t, studioclient.SaveFailed, p.FieldState(studioclient.FieldScript))
	assert.Equal(t, studioclient.SaveSaved, p.FieldState(studioclient.FieldSpeed))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []studioclient.SaveState{studioclient.SaveSaving, studioclient.SaveFailed}, transitions[studioclient.FieldScript])
	assert.Equal(t, []studioclient.SaveState{studioclient.SaveSaving, studioclient.SaveSaved}, transitions[studioclient.FieldSpeed])
}

func TestPanelConcurrentEditsDoNotBlock(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/customer/tok-1/teleprompter/script" {
			<-release
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	p := studioclient.NewPanel(studioclient.New(srv.URL), "tok-1")
	p.SetTeleprompterScript(context.Background(), "slow save")
	p.SetTeleprompterSpeed(context.Background(), 60)

	// The speed save settles while the script save is still held open.
	require.Eventually(t, func() bool {
		return p.FieldState(studioclient.FieldSpeed) == studioclient.SaveSaved
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, studioclient.SaveSaving, p.FieldState(studioclient.FieldScript))

	close(release)
	p.Wait()
	assert.Equal(t, studioclient.SaveSaved, p.FieldState(studioclient.FieldScript))
}
