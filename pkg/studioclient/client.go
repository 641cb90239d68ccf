// Package studioclient is the session-state-projection client used by every
// viewing surface: the control panel, the kiosk calendar and the studio
// displays. It wraps the booking backend's HTTP API and provides the status
// poller, the display-mode router and the control-panel mutation surface.
package studioclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/pkg/studio"
)

// DefaultTimeout bounds every backend fetch. An expired fetch counts as a
// poll failure under the stale-while-revalidate policy.
const DefaultTimeout = 10 * time.Second

// Default poll intervals per surface kind.
const (
	DisplayPollInterval  = 2 * time.Second
	CalendarPollInterval = 60 * time.Second
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend, e.g. an invalid
// or expired session token.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client calls the studio booking backend.
type Client struct {
	baseURL   string
	http      *http.Client
	authToken string
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAuthToken sets the staff JWT sent on control-panel endpoints.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a backend client with the default 10s timeout.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Booking mirrors the backend booking payload.
type Booking struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Service       string    `json:"service"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Status        string    `json:"status"`
	WalkIn        bool      `json:"walk_in"`
	Notes         string    `json:"notes,omitempty"`
}

// Graphic is an overlay asset attached to an appointment.
type Graphic struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
}

// Appointment is the booking detail view: the booking plus its graphics.
type Appointment struct {
	Booking  Booking   `json:"booking"`
	Graphics []Graphic `json:"graphics"`
}

// CurrentBooking reports whether a session is active right now.
type CurrentBooking struct {
	Active      bool     `json:"active"`
	Booking     *Booking `json:"booking,omitempty"`
	AccessToken string   `json:"access_token,omitempty"`
}

// ActivationResult is the activation response. AccessToken is the structured
// field; Message is the legacy free-text carrier kept for old clients.
type ActivationResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// CalendarSlot is one bookable slot in today's grid.
type CalendarSlot struct {
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	Available bool       `json:"available"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

// CalendarDay is the kiosk calendar for one day.
type CalendarDay struct {
	Date  string         `json:"date"`
	Slots []CalendarSlot `json:"slots"`
}

// WalkInRequest creates a booking from the kiosk without prior registration.
type WalkInRequest struct {
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Service       string    `json:"service"`
	StartsAt      time.Time `json:"starts_at"`
	Notes         string    `json:"notes,omitempty"`
}

// GetAppointment fetches the booking detail with graphics.
func (c *Client) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCurrentBooking fetches the booking currently active in the studio, if any.
func (c *Client) GetCurrentBooking(ctx context.Context) (*CurrentBooking, error) {
	var out CurrentBooking
	if err := c.do(ctx, http.MethodGet, "/bookings/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateBooking marks a booking active and returns the session token. It
// prefers the structured access_token field and falls back to extracting the
// token from the legacy message. A response carrying neither is logged and
// yields an empty token: the caller proceeds with an inactive session.
func (c *Client) ActivateBooking(ctx context.Context, id uuid.UUID) (string, error) {
	var out ActivationResult
	if err := c.do(ctx, http.MethodPost, "/bookings/"+id.String()+"/activate", nil, &out); err != nil {
		return "", err
	}
	if out.AccessToken != "" {
		return out.AccessToken, nil
	}
	if token, ok := studio.ExtractAccessToken(out.Message); ok {
		return token, nil
	}
	c.logger.Warn("activation response carried no access token", zap.String("message", out.Message))
	return "", nil
}

// CompleteBooking ends the active session and invalidates its token.
func (c *Client) CompleteBooking(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/bookings/"+id.String()+"/complete", nil, nil)
}

// GetCustomerStatus fetches the live session snapshot for a token.
func (c *Client) GetCustomerStatus(ctx context.Context, token string) (*studio.CustomerStatus, error) {
	var out studio.CustomerStatus
	if err := c.do(ctx, http.MethodGet, "/customer/status/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeleprompterScript replaces the teleprompter script.
func (c *Client) UpdateTeleprompterScript(ctx context.Context, token, text string) error {
	body := map[string]string{"text": text}
	return c.do(ctx, http.MethodPut, "/customer/"+url.PathEscape(token)+"/teleprompter/script", body, nil)
}

// SetTeleprompterSpeed sets the scroll speed, clamped to [1,100] before
// transmission.
func (c *Client) SetTeleprompterSpeed(ctx context.Context, token string, percent int) error {
	body := map[string]int{"percent": studio.ClampScrollSpeed(percent)}
	return c.do(ctx, http.MethodPut, "/customer/"+url.PathEscape(token)+"/teleprompter/speed", body, nil)
}

// SetDisplayMode switches which layout the studio displays render.
func (c *Client) SetDisplayMode(ctx context.Context, token string, mode studio.DisplayMode) error {
	body := map[string]string{"mode": string(mode)}
	return c.do(ctx, http.MethodPut, "/customer/"+url.PathEscape(token)+"/display-mode", body, nil)
}

// GetCalendarToday fetches today's slot grid for the kiosk.
func (c *Client) GetCalendarToday(ctx context.Context) (*CalendarDay, error) {
	var out CalendarDay
	if err := c.do(ctx, http.MethodGet, "/calendar/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWalkInBooking creates a booking from the kiosk.
func (c *Client) CreateWalkInBooking(ctx context.Context, req WalkInRequest) error {
	return c.do(ctx, http.MethodPost, "/bookings/walk-in", req, nil)
}

// envelope is the backend response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// Tolerate an empty or non-envelope body on error statuses.
		_ = json.Unmarshal(raw, &env)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
