package models

import "time"

// StudioSettings is the single row of studio operating settings edited from
// the admin shell. OpenHour/CloseHour are local hours [0,24); SlotMinutes is
// the kiosk calendar slot length; KioskDefaultMode is the display mode a
// tokenless kiosk preview starts in.
type StudioSettings struct {
	OpenHour         int       `json:"open_hour"`
	CloseHour        int       `json:"close_hour"`
	SlotMinutes      int       `json:"slot_minutes"`
	KioskDefaultMode string    `json:"kiosk_default_mode"`
	UpdatedAt        time.Time `json:"updated_at"`
}
