// Package settings persists the studio operating settings edited from the
// admin shell.
package settings

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-studio/backend/internal/models"
)

// Defaults applied when no settings row exists yet.
var Defaults = models.StudioSettings{
	OpenHour:         9,
	CloseHour:        18,
	SlotMinutes:      60,
	KioskDefaultMode: "podcast",
}

// Repository handles the single studio settings row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the current settings, or Defaults when none are stored.
func (r *Repository) Get(ctx context.Context) (models.StudioSettings, error) {
	const q = `SELECT open_hour, close_hour, slot_minutes, kiosk_default_mode, updated_at
		FROM studio_settings WHERE id = 1`
	var s models.StudioSettings
	err := r.pool.QueryRow(ctx, q).Scan(&s.OpenHour, &s.CloseHour, &s.SlotMinutes, &s.KioskDefaultMode, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Defaults, nil
	}
	if err != nil {
		return models.StudioSettings{}, err
	}
	return s, nil
}

// Update upserts the settings row.
func (r *Repository) Update(ctx context.Context, s models.StudioSettings) error {
	const q = `INSERT INTO studio_settings (id, open_hour, close_hour, slot_minutes, kiosk_default_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			open_hour = EXCLUDED.open_hour,
			close_hour = EXCLUDED.close_hour,
			slot_minutes = EXCLUDED.slot_minutes,
			kiosk_default_mode = EXCLUDED.kiosk_default_mode,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, s.OpenHour, s.CloseHour, s.SlotMinutes, s.KioskDefaultMode)
	return err
}
