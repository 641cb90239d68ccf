package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the booking lifecycle.
const (
	BookingStatusScheduled = "scheduled"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is one studio appointment: a customer, a time slot and a service
// type (podcast recording, course taping, webinar, ...).
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
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CalendarSlot is one bookable slot in the kiosk day grid.
type CalendarSlot struct {
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	Available bool       `json:"available"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

// CalendarDay is the slot grid for one day.
type CalendarDay struct {
	Date  string         `json:"date"`
	Slots []CalendarSlot `json:"slots"`
}
