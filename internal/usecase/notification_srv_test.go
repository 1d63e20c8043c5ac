package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/memory"
	"clinic-booking/internal/notify"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedBooking(t *testing.T, store *memory.Store, patient uuid.UUID, start string, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	b := &entity.Booking{
		PatientID:      patient,
		PractitionerID: uuid.New(),
		CenterID:       uuid.New(),
		TherapyType:    "Physio",
		SessionDate:    june1,
		StartTime:      start,
		EndTime:        "23:59",
		SessionNumber:  1,
		TotalSessions:  3,
		Status:         status,
	}
	b.ID = uuid.New()
	require.NoError(t, store.Bookings.Create(context.Background(), b))
	return b
}

func TestDueReminders(t *testing.T) {
	store := memory.NewStore()
	now := june1.Add(9 * time.Hour)
	svc := NewNotificationService(store.Repository(), utils.DefaultSchedulingConfig(), zap.NewNop()).(*notificationService)
	svc.now = func() time.Time { return now }

	patient := uuid.New()
	store.Patients.Add(&entity.Patient{BaseNoDelete: entity.BaseNoDelete{ID: patient}, Name: "Ana", Email: "ana@example.com"})

	soon := seedBooking(t, store, patient, "09:30", entity.BookingStatusScheduled)
	later := seedBooking(t, store, patient, "15:00", entity.BookingStatusConfirmed)
	seedBooking(t, store, patient, "16:00", entity.BookingStatusCancelled)
	seedBooking(t, store, patient, "08:00", entity.BookingStatusScheduled)

	staff := Actor{ID: uuid.New(), Role: entity.RolePractitioner}
	ctx := context.Background()

	events, err := svc.DueReminders(ctx, staff, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, soon.ID, events[0].Booking.ID)
	assert.Equal(t, notify.EventReminder1h, events[0].Type)
	assert.Equal(t, later.ID, events[1].Booking.ID)
	assert.Equal(t, notify.EventReminder24h, events[1].Type)
	assert.Equal(t, "ana@example.com", events[0].Recipient.Email)

	require.NoError(t, svc.MarkReminderSent(ctx, staff, soon.ID.String()))

	events, err = svc.DueReminders(ctx, staff, 1)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = svc.DueReminders(ctx, Actor{ID: patient, Role: entity.RolePatient}, 24)
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)

	err = svc.MarkReminderSent(ctx, staff, uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDueFollowUps(t *testing.T) {
	store := memory.NewStore()
	now := june1.Add(20 * time.Hour)
	svc := NewNotificationService(store.Repository(), utils.DefaultSchedulingConfig(), zap.NewNop()).(*notificationService)
	svc.now = func() time.Time { return now }

	patient := uuid.New()
	done := seedBooking(t, store, patient, "10:00", entity.BookingStatusCompleted)
	seedBooking(t, store, patient, "11:00", entity.BookingStatusConfirmed)

	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	ctx := context.Background()

	events, err := svc.DueFollowUps(ctx, admin)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventPostSession, events[0].Type)
	assert.Equal(t, done.ID, events[0].Booking.ID)

	require.NoError(t, svc.MarkFollowUpSent(ctx, admin, done.ID.String()))

	events, err = svc.DueFollowUps(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, events)
}
