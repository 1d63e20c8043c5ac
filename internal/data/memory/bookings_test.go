package memory

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(patient uuid.UUID, date time.Time, start string, status entity.BookingStatus) *entity.Booking {
	return &entity.Booking{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		PatientID:     patient,
		CenterID:      uuid.New(),
		TherapyType:   "Physiotherapy",
		SessionDate:   date,
		StartTime:     start,
		EndTime:       "23:00",
		SessionNumber: 1,
		TotalSessions: 10,
		Status:        status,
	}
}

func TestBookingStoreOrderingAndCount(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	patient := uuid.New()

	late := newBooking(patient, june1.AddDate(0, 0, 2), "09:00", entity.BookingStatusScheduled)
	early := newBooking(patient, june1, "14:00", entity.BookingStatusCompleted)
	earlier := newBooking(patient, june1, "09:00", entity.BookingStatusCancelled)
	for _, b := range []*entity.Booking{late, early, earlier} {
		require.NoError(t, s.Create(ctx, b))
	}

	got, err := s.FindByPatient(ctx, patient)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)

	n, err := s.CountActiveByPatient(ctx, patient)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBookingStoreConditionalWrites(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	b := newBooking(uuid.New(), june1, "10:00", entity.BookingStatusScheduled)
	require.NoError(t, s.Create(ctx, b))

	require.NoError(t, s.UpdateStatus(ctx, b.ID, entity.BookingStatusScheduled, entity.BookingStatusConfirmed))
	err := s.UpdateStatus(ctx, b.ID, entity.BookingStatusScheduled, entity.BookingStatusCancelled)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	err = s.UpdateStatus(ctx, uuid.New(), entity.BookingStatusScheduled, entity.BookingStatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	feedback := uuid.New()
	require.NoError(t, s.AttachFeedback(ctx, b.ID, feedback))
	assert.ErrorIs(t, s.AttachFeedback(ctx, b.ID, uuid.New()), apperror.ErrConflict)

	stored, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, feedback, *stored.FeedbackID)
}

func TestBookingStoreDueScans(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	soon := newBooking(uuid.New(), june1, "10:00", entity.BookingStatusConfirmed)
	tomorrowLate := newBooking(uuid.New(), june1.AddDate(0, 0, 1), "09:00", entity.BookingStatusScheduled)
	cancelled := newBooking(uuid.New(), june1, "11:00", entity.BookingStatusCancelled)
	done := newBooking(uuid.New(), june1.AddDate(0, 0, -1), "10:00", entity.BookingStatusCompleted)
	for _, b := range []*entity.Booking{soon, tomorrowLate, cancelled, done} {
		require.NoError(t, s.Create(ctx, b))
	}

	due, err := s.FindDueReminders(ctx, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	require.NoError(t, s.MarkReminderSent(ctx, soon.ID))
	due, err = s.FindDueReminders(ctx, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	follow, err := s.FindDueFollowUps(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, follow, 1)
	assert.Equal(t, done.ID, follow[0].ID)
}

func TestBookingStoreUpdateScheduleGuardsSlot(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	b := newBooking(uuid.New(), june1, "10:00", entity.BookingStatusScheduled)
	require.NoError(t, s.Create(ctx, b))
	observed := b.SlotKey()

	moved := *b
	moved.StartTime = "12:00"
	require.NoError(t, s.UpdateSchedule(ctx, &moved, entity.BookingStatusScheduled, observed))

	// A second writer that still believes the booking sits at 10:00 loses.
	stale := *b
	stale.StartTime = "11:00"
	err := s.UpdateSchedule(ctx, &stale, entity.BookingStatusScheduled, observed)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "12:00", got.StartTime)
}
