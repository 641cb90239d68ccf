package models

import (
	"time"

	"github.com/google/uuid"
)

// RecordingStatus represents the recording lifecycle.
const (
	RecordingStatusRecording  = "recording"
	RecordingStatusProcessing = "processing"
	RecordingStatusCompleted  = "completed"
	RecordingStatusFailed     = "failed"
)

// Recording is one take captured by the studio recorder for a booking. The
// recorder device holds the raw file until the ingest worker moves it to S3.
type Recording struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	SourceURL  string    `json:"source_url,omitempty"`
	S3URL      string    `json:"s3_url,omitempty"`
	S3Key      string    `json:"s3_key,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	FileSize   int64     `json:"file_size"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
