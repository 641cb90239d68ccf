// Package graphics manages per-booking overlay assets (lower thirds, logos,
// slides) stored in S3.
package graphics

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-studio/backend/internal/models"
)

// Repository handles graphic persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a graphics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a graphic row.
func (r *Repository) Create(ctx context.Context, g *models.Graphic) error {
	const q = `INSERT INTO graphics (id, booking_id, file_name, content_type, s3_key)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, g.BookingID, g.FileName, g.ContentType, g.S3Key).
		Scan(&g.ID, &g.CreatedAt)
}

// GetByID returns a graphic by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Graphic, error) {
	const q = `SELECT id, booking_id, file_name, content_type, s3_key, created_at FROM graphics WHERE id = $1`
	var g models.Graphic
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.BookingID, &g.FileName, &g.ContentType, &g.S3Key, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByBooking returns all graphics attached to a booking.
func (r *Repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Graphic, error) {
	const q = `SELECT id, booking_id, file_name, content_type, s3_key, created_at
		FROM graphics WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Graphic
	for rows.Next() {
		var g models.Graphic
		if err := rows.Scan(&g.ID, &g.BookingID, &g.FileName, &g.ContentType, &g.S3Key, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Delete removes a graphic row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM graphics WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
