package bookings

import (
	"time"

	"github.com/lumen-studio/backend/internal/models"
)

// BuildCalendarDay lays today's bookings onto the studio's slot grid. A slot
// is unavailable when any non-cancelled booking overlaps it; the first
// overlapping booking's ID is attached so the kiosk can show who holds it.
func BuildCalendarDay(date time.Time, cfg models.StudioSettings, list []models.Booking) models.CalendarDay {
	day := models.CalendarDay{Date: date.Format("2006-01-02")}

	slotLen := time.Duration(cfg.SlotMinutes) * time.Minute
	if slotLen <= 0 {
		return day
	}
	open := time.Date(date.Year(), date.Month(), date.Day(), cfg.OpenHour, 0, 0, 0, date.Location())
	close := time.Date(date.Year(), date.Month(), date.Day(), cfg.CloseHour, 0, 0, 0, date.Location())

	for start := open; start.Add(slotLen).Sub(close) <= 0; start = start.Add(slotLen) {
		slot := models.CalendarSlot{
			StartsAt:  start,
			EndsAt:    start.Add(slotLen),
			Available: true,
		}
		for i := range list {
			b := &list[i]
			if b.Status == models.BookingStatusCancelled {
				continue
			}
			if b.StartsAt.Before(slot.EndsAt) && b.EndsAt.After(slot.StartsAt) {
				slot.Available = false
				id := b.ID
				slot.BookingID = &id
				break
			}
		}
		day.Slots = append(day.Slots, slot)
	}
	return day
}
