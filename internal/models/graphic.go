package models

import (
	"time"

	"github.com/google/uuid"
)

// Graphic is an overlay asset (lower third, logo, slide) attached to a
// booking, stored in S3. URL is filled with a presigned link at read time
// and never persisted.
type Graphic struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	S3Key       string    `json:"-"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
