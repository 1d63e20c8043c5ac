// Package notify hands booking lifecycle events to the notification service.
// Delivery (email, SMS) happens downstream; publishing is fire-and-log.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingConfirmation EventType = "booking_confirmation"
	EventReminder24h         EventType = "reminder_24h"
	EventReminder1h          EventType = "reminder_1h"
	EventPostSession         EventType = "post_session"
	EventReschedule          EventType = "reschedule"
	EventCancellation        EventType = "cancellation"
)

type Recipient struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

type Party struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

type BookingSnapshot struct {
	ID            uuid.UUID `json:"id"`
	TherapyType   string    `json:"therapy_type"`
	SessionDate   string    `json:"session_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	SessionNumber int       `json:"session_number"`
	TotalSessions int       `json:"total_sessions"`
	Status        string    `json:"status"`
}

type Event struct {
	Type         EventType       `json:"type"`
	Recipient    Recipient       `json:"recipient"`
	Booking      BookingSnapshot `json:"booking"`
	Practitioner Party           `json:"practitioner"`
	Center       Party           `json:"center"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
