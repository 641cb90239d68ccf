package studio

import (
	"time"

	"github.com/google/uuid"
)

// BookingInfo is the immutable booking snapshot carried inside a session.
type BookingInfo struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customer_name"`
	Service      string    `json:"service"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// ProjectInfo describes the recording project attached to a session.
type ProjectInfo struct {
	Name    string `json:"name"`
	Service string `json:"service"`
}

// CustomerStatus is the session snapshot served to every polling surface.
// DisplayMode is a raw string on the wire; use Mode() to interpret it so an
// unrecognized value degrades to ModeUnknown instead of failing decode.
type CustomerStatus struct {
	DisplayMode            string      `json:"display_mode"`
	TeleprompterScript     string      `json:"teleprompter_script"`
	TeleprompterScrollSpeed int        `json:"teleprompter_scroll_speed"`
	RecordingActive        bool        `json:"recording_active"`
	RecordingDurationMs    int64       `json:"recording_duration_ms"`
	Booking                BookingInfo `json:"booking"`
	Project                ProjectInfo `json:"project"`
}

// Mode returns the parsed display mode, ModeUnknown for unrecognized values.
func (s CustomerStatus) Mode() DisplayMode {
	m, _ := ParseDisplayMode(s.DisplayMode)
	return m
}
