package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

// Ledger enforces the booking lifecycle over the booking repository. It never
// touches slots; pairing ledger writes with calendar writes is the scheduling
// service's job.
type Ledger struct {
	bookings repository.BookingRepository
	now      func() time.Time
}

func NewLedger(bookings repository.BookingRepository) *Ledger {
	return &Ledger{bookings: bookings, now: time.Now}
}

func (l *Ledger) Create(ctx context.Context, draft *entity.BookingDraft) (*entity.Booking, error) {
	booking, err := entity.NewBooking(draft, l.now())
	if err != nil {
		return nil, err
	}
	if err := l.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (l *Ledger) Find(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", id)
	}
	return booking, nil
}

// Transition moves booking from the status the caller observed to target.
// The returned booking is re-read after the write, so its slot is the one the
// booking held at the moment the status changed.
func (l *Ledger) Transition(ctx context.Context, booking *entity.Booking, target entity.BookingStatus) (*entity.Booking, error) {
	if !booking.Status.CanTransitionTo(target) {
		return nil, apperror.New(apperror.KindInvalidTransition,
			"booking %s cannot move from %s to %s", booking.ID, booking.Status, target)
	}
	if err := l.bookings.UpdateStatus(ctx, booking.ID, booking.Status, target); err != nil {
		return nil, err
	}
	return l.Find(ctx, booking.ID)
}

// MoveTo rewrites the booking's slot in place and returns it to scheduled.
// The write only lands if the booking still has status from and still sits in
// the slot the caller read; anything else is a conflict.
func (l *Ledger) MoveTo(ctx context.Context, booking *entity.Booking, from entity.BookingStatus, key entity.SlotKey) error {
	if !from.CanTransitionTo(entity.BookingStatusRescheduled) {
		return apperror.New(apperror.KindInvalidTransition,
			"booking %s cannot be rescheduled from %s", booking.ID, from)
	}

	moved := *booking
	moved.SessionDate = key.Date
	moved.StartTime = key.Start
	moved.EndTime = key.End
	moved.Status = entity.BookingStatusScheduled
	moved.ReminderSent = false
	moved.UpdatedAt = l.now()

	if err := l.bookings.UpdateSchedule(ctx, &moved, from, booking.SlotKey()); err != nil {
		return err
	}
	*booking = moved
	return nil
}

func (l *Ledger) ByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Booking, error) {
	return l.bookings.FindByPatient(ctx, patientID)
}

func (l *Ledger) ByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*entity.Booking, error) {
	return l.bookings.FindByPractitioner(ctx, practitionerID)
}

func (l *Ledger) ByCenter(ctx context.Context, centerID uuid.UUID) ([]*entity.Booking, error) {
	return l.bookings.FindByCenter(ctx, centerID)
}

func (l *Ledger) AttachFeedback(ctx context.Context, id, feedbackID uuid.UUID) error {
	return l.bookings.AttachFeedback(ctx, id, feedbackID)
}
