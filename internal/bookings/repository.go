package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-studio/backend/internal/models"
)

const bookingColumns = `id, customer_name, COALESCE(customer_email,''), service, starts_at, ends_at, status, walk_in, COALESCE(notes,''), created_at, updated_at`

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.CustomerName, &b.CustomerEmail, &b.Service, &b.StartsAt, &b.EndsAt, &b.Status, &b.WalkIn, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (id, customer_name, customer_email, service, starts_at, ends_at, status, walk_in, notes)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, b.CustomerName, b.CustomerEmail, b.Service, b.StartsAt, b.EndsAt, b.Status, b.WalkIn, b.Notes).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a booking by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.pool.QueryRow(ctx, q, id))
}

// GetActive returns the currently active booking, or nil when the studio is
// idle. At most one booking is active at a time.
func (r *Repository) GetActive(ctx context.Context) (*models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY updated_at DESC LIMIT 1`
	b, err := scanBooking(r.pool.QueryRow(ctx, q, models.BookingStatusActive))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBetween returns non-cancelled bookings overlapping [from, to).
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
		WHERE starts_at < $2 AND ends_at > $1 AND status != $3
		ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, q, from, to, models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// UpdateStatus moves a booking through its lifecycle.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	const q = `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, status, id)
	return err
}
