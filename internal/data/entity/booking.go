package entity

import (
	"strings"
	"time"

	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled   BookingStatus = "scheduled"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusInProgress  BookingStatus = "in-progress"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusScheduled:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusRescheduled},
	BookingStatusConfirmed:   {BookingStatusInProgress, BookingStatusCancelled, BookingStatusRescheduled},
	BookingStatusInProgress:  {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusRescheduled: {BookingStatusScheduled, BookingStatusCancelled},
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	switch status {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusRescheduled:
		return status, true
	}
	return "", false
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// HoldsSlot reports whether a booking in this status keeps its slot reserved.
func (s BookingStatus) HoldsSlot() bool {
	return s != BookingStatusCancelled && s != BookingStatusRescheduled
}

type Booking struct {
	BaseNoDelete
	PatientID      uuid.UUID     `db:"patient_id"`
	PractitionerID uuid.UUID     `db:"practitioner_id"`
	CenterID       uuid.UUID     `db:"center_id"`
	TherapyType    string        `db:"therapy_type"`
	SessionDate    time.Time     `db:"session_date"`
	StartTime      string        `db:"start_time"`
	EndTime        string        `db:"end_time"`
	SessionNumber  int           `db:"session_number"`
	TotalSessions  int           `db:"total_sessions"`
	Status         BookingStatus `db:"status"`
	Notes          *string       `db:"notes"`
	FeedbackID     *uuid.UUID    `db:"feedback_id"`
	ReminderSent   bool          `db:"reminder_sent"`
	FollowUpSent   bool          `db:"follow_up_sent"`
}

func (b *Booking) SlotKey() SlotKey {
	return NewSlotKey(b.CenterID, b.SessionDate, b.StartTime, b.EndTime)
}

func (b *Booking) StartsAt() time.Time {
	return StartsAt(b.SessionDate, b.StartTime)
}

// BookingDraft carries everything needed to record a booking except its
// identity and initial status.
type BookingDraft struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	CenterID       uuid.UUID
	TherapyType    string
	SessionDate    time.Time
	StartTime      string
	EndTime        string
	SessionNumber  int
	TotalSessions  int
	Notes          *string
}

func (d *BookingDraft) Validate() error {
	if strings.TrimSpace(d.TherapyType) == "" {
		return apperror.Validation("therapy type is required")
	}
	if d.SessionDate.IsZero() {
		return apperror.Validation("session date is required")
	}
	if err := ValidateWindow(d.StartTime, d.EndTime); err != nil {
		return err
	}
	if d.TotalSessions < 1 {
		return apperror.Validation("total sessions must be at least 1")
	}
	// Numbering runs across all of a patient's courses, so it may pass
	// TotalSessions once an earlier course is done.
	if d.SessionNumber < 1 {
		return apperror.Validation("session number must be at least 1")
	}
	return nil
}

// NewBooking materialises a validated draft as a scheduled booking.
func NewBooking(d *BookingDraft, now time.Time) (*Booking, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Booking{
		BaseNoDelete: BaseNoDelete{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:      d.PatientID,
		PractitionerID: d.PractitionerID,
		CenterID:       d.CenterID,
		TherapyType:    strings.TrimSpace(d.TherapyType),
		SessionDate:    NormalizeDate(d.SessionDate),
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		SessionNumber:  d.SessionNumber,
		TotalSessions:  d.TotalSessions,
		Status:         BookingStatusScheduled,
		Notes:          d.Notes,
	}, nil
}
