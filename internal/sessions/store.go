// Package sessions holds the backend-resident live state of activated
// bookings. The session is the only shared mutable resource in the system:
// the control panel writes it, every display surface polls it.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/pkg/studio"
)

var (
	// ErrNotFound means the token does not identify a live session.
	ErrNotFound = errors.New("session not found")
	// ErrScriptLocked means the teleprompter script was edited while the
	// session is not in teleprompter mode.
	ErrScriptLocked = errors.New("teleprompter script is only editable in teleprompter mode")
)

// State is one booking's live session state, keyed by its opaque token.
type State struct {
	Token                   string             `json:"token"`
	BookingID               uuid.UUID          `json:"booking_id"`
	DisplayMode             string             `json:"display_mode"`
	TeleprompterScript      string             `json:"teleprompter_script"`
	TeleprompterScrollSpeed int                `json:"teleprompter_scroll_speed"`
	RecordingActive         bool               `json:"recording_active"`
	RecordingDurationMs     int64              `json:"recording_duration_ms"`
	Booking                 studio.BookingInfo `json:"booking"`
	Project                 studio.ProjectInfo `json:"project"`
	ActivatedAt             time.Time          `json:"activated_at"`
}

// Status projects the state into the wire snapshot served to surfaces.
func (s *State) Status() studio.CustomerStatus {
	return studio.CustomerStatus{
		DisplayMode:             s.DisplayMode,
		TeleprompterScript:      s.TeleprompterScript,
		TeleprompterScrollSpeed: s.TeleprompterScrollSpeed,
		RecordingActive:         s.RecordingActive,
		RecordingDurationMs:     s.RecordingDurationMs,
		Booking:                 s.Booking,
		Project:                 s.Project,
	}
}

// Store is the live session state container.
type Store interface {
	Create(ctx context.Context, st *State) error
	Get(ctx context.Context, token string) (*State, error)
	SetDisplayMode(ctx context.Context, token string, mode studio.DisplayMode) error
	SetTeleprompterScript(ctx context.Context, token, text string) error
	SetTeleprompterSpeed(ctx context.Context, token string, percent int) error
	SetRecording(ctx context.Context, token string, active bool, durationMs int64) error
	Delete(ctx context.Context, token string) error
	TokenForBooking(ctx context.Context, bookingID uuid.UUID) (string, error)
}

// RedisStore keeps session state as JSON in Redis with a TTL so an abandoned
// session cannot outlive the studio day. Mutations are read-modify-write
// without locking: the control panel is the single writer and each field is
// an idempotent last-write-wins overwrite.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a session store. ttl <= 0 defaults to 12h.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(token string) string { return "session:" + token }

func bookingKey(id uuid.UUID) string { return "session:booking:" + id.String() }

// Create stores a new session and the booking→token index.
func (r *RedisStore) Create(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(st.Token), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	if err := r.client.Set(ctx, bookingKey(st.BookingID), st.Token, r.ttl).Err(); err != nil {
		return fmt.Errorf("set booking index: %w", err)
	}
	r.logger.Info("session created",
		zap.String("booking_id", st.BookingID.String()),
		zap.String("display_mode", st.DisplayMode),
	)
	return nil
}

// Get loads a session by token.
func (r *RedisStore) Get(ctx context.Context, token string) (*State, error) {
	raw, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &st, nil
}

// SetDisplayMode switches the session's display mode.
func (r *RedisStore) SetDisplayMode(ctx context.Context, token string, mode studio.DisplayMode) error {
	return r.update(ctx, token, func(st *State) error {
		st.DisplayMode = string(mode)
		return nil
	})
}

// SetTeleprompterScript replaces the script. The script is only mutable
// while the session is in teleprompter mode.
func (r *RedisStore) SetTeleprompterScript(ctx context.Context, token, text string) error {
	return r.update(ctx, token, func(st *State) error {
		return applyScript(st, text)
	})
}

// SetTeleprompterSpeed stores the scroll speed, clamped to [1,100].
func (r *RedisStore) SetTeleprompterSpeed(ctx context.Context, token string, percent int) error {
	return r.update(ctx, token, func(st *State) error {
		applySpeed(st, percent)
		return nil
	})
}

// SetRecording updates the recording state owned by the recorder subsystem.
func (r *RedisStore) SetRecording(ctx context.Context, token string, active bool, durationMs int64) error {
	return r.update(ctx, token, func(st *State) error {
		st.RecordingActive = active
		if durationMs > 0 {
			st.RecordingDurationMs = durationMs
		}
		return nil
	})
}

// Delete invalidates a session token and its booking index.
func (r *RedisStore) Delete(ctx context.Context, token string) error {
	st, err := r.Get(ctx, token)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, sessionKey(token), bookingKey(st.BookingID)).Err(); err != nil {
		return fmt.Errorf("del session: %w", err)
	}
	return nil
}

// TokenForBooking returns the live token for a booking, or "" when the
// booking has no active session.
func (r *RedisStore) TokenForBooking(ctx context.Context, bookingID uuid.UUID) (string, error) {
	token, err := r.client.Get(ctx, bookingKey(bookingID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get booking index: %w", err)
	}
	return token, nil
}

func applyScript(st *State, text string) error {
	if st.DisplayMode != string(studio.ModeTeleprompter) {
		return ErrScriptLocked
	}
	st.TeleprompterScript = text
	return nil
}

func applySpeed(st *State, percent int) {
	st.TeleprompterScrollSpeed = studio.ClampScrollSpeed(percent)
}

func (r *RedisStore) update(ctx context.Context, token string, mutate func(*State) error) error {
	st, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := mutate(st); err != nil {
		return err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// KEEPTTL so mutations do not extend the session lifetime.
	if err := r.client.Set(ctx, sessionKey(token), raw, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}
