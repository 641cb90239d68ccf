package studioclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-studio/backend/pkg/studioclient"
)

func TestActivateBookingPrefersStructuredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"message":"Booking activated. Access token: legacy-tok","access_token":"structured-tok"}}`))
	}))
	defer srv.Close()

	token, err := studioclient.New(srv.URL).ActivateBooking(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "structured-tok", token)
}

func TestActivateBookingFallsBackToMessagePattern(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"message":"Booking activated. Access token: abc123"}}`))
	}))
	defer srv.Close()

	token, err := studioclient.New(srv.URL).ActivateBooking(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestActivateBookingMissingTokenIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"message":"Booking activated."}}`))
	}))
	defer srv.Close()

	token, err := studioclient.New(srv.URL).ActivateBooking(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, token, "a tokenless activation proceeds as an inactive session")
}

func TestGetCustomerStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"session not found"}`))
	}))
	defer srv.Close()

	_, err := studioclient.New(srv.URL).GetCustomerStatus(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, studioclient.IsNotFound(err))
	assert.Contains(t, err.Error(), "session not found")
}

func TestClientSendsAuthToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer staff-jwt", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":{"active":false}}`))
	}))
	defer srv.Close()

	c := studioclient.New(srv.URL, studioclient.WithAuthToken("staff-jwt"))
	cur, err := c.GetCurrentBooking(context.Background())
	require.NoError(t, err)
	assert.False(t, cur.Active)
}
