package studioclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-studio/backend/pkg/studio"
	"github.com/lumen-studio/backend/pkg/studioclient"
)

func statusOK(t *testing.T, w http.ResponseWriter, st studio.CustomerStatus) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": st})
	require.NoError(t, err)
}

func TestPollerKeepsLastSnapshotAcrossFailures(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		if n == 1 {
			statusOK(t, w, studio.CustomerStatus{DisplayMode: "teleprompter", TeleprompterScript: "hello", TeleprompterScrollSpeed: 30})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	errs := make(chan error, 8)
	p := studioclient.NewPoller(studioclient.New(srv.URL), studioclient.PollerConfig{
		Token:    "tok-1",
		Interval: 20 * time.Millisecond,
		OnError:  func(err error) { errs <- err },
	})
	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool {
		_, ok := p.Current()
		return ok
	}, time.Second, 5*time.Millisecond)

	// Let several failing polls happen.
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 4
	}, time.Second, 5*time.Millisecond)

	st, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "hello", st.TeleprompterScript)
	assert.Equal(t, studio.ModeTeleprompter, st.Mode())
	assert.NoError(t, p.Err())
	assert.Empty(t, errs, "failures after a good snapshot must be suppressed")
}

func TestPollerFirstFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := studioclient.NewPoller(studioclient.New(srv.URL), studioclient.PollerConfig{
		Token:    "tok-1",
		Interval: 20 * time.Millisecond,
	})
	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool { return p.Err() != nil }, time.Second, 5*time.Millisecond)
	_, ok := p.Current()
	assert.False(t, ok)
}

func TestPollerInvalidSessionIsTerminal(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := studioclient.NewPoller(studioclient.New(srv.URL), studioclient.PollerConfig{
		Token:    "expired",
		Interval: 15 * time.Millisecond,
	})
	p.Start()

	require.Eventually(t, func() bool { return p.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, p.Err(), studioclient.ErrInvalidSession)

	seen := atomic.LoadInt64(&calls)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, seen, atomic.LoadInt64(&calls), "a rejected token must not be retried")
	p.Stop()
}

func TestPollerStopPreventsFurtherFetches(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		statusOK(t, w, studio.CustomerStatus{DisplayMode: "podcast"})
	}))
	defer srv.Close()

	p := studioclient.NewPoller(studioclient.New(srv.URL), studioclient.PollerConfig{
		Token:    "tok-1",
		Interval: 15 * time.Millisecond,
	})
	p.Start()
	require.Eventually(t, func() bool { return atomic.LoadInt64(&calls) >= 2 }, time.Second, 5*time.Millisecond)

	p.Stop()
	seen := atomic.LoadInt64(&calls)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, seen, atomic.LoadInt64(&calls), "no fetches may happen after Stop")
}

func TestPollerDirectAccessNeverFetches(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	got := make(chan studio.CustomerStatus, 1)
	p := studioclient.NewPoller(studioclient.New(srv.URL), studioclient.PollerConfig{
		Token:     "",
		RouteHint: studio.ModeTeleprompter,
		OnStatus:  func(st studio.CustomerStatus) { got <- st },
	})
	p.Start()
	defer p.Stop()

	select {
	case st := <-got:
		assert.Equal(t, studio.ModeTeleprompter, st.Mode())
		assert.Equal(t, studio.DefaultScrollSpeed, st.TeleprompterScrollSpeed)
	case <-time.After(time.Second):
		t.Fatal("direct-access snapshot never arrived")
	}

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&calls), "direct-access mode must not poll")

	st, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, studio.ModeTeleprompter, st.Mode())
}

func TestDirectStatusDefaultsToPodcast(t *testing.T) {
	assert.Equal(t, studio.ModePodcast, studioclient.DirectStatus("").Mode())
	assert.Equal(t, studio.ModePodcast, studioclient.DirectStatus("hologram").Mode())
	assert.Equal(t, studio.ModeWebinar, studioclient.DirectStatus(studio.ModeWebinar).Mode())
}
