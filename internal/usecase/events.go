package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/metrics"
	"clinic-booking/internal/notify"

	"go.uber.org/zap"
)

// dispatcher resolves the parties of a booking into a notification event and
// hands it to the publisher. It runs after the local writes have committed
// and never fails the calling operation.
type dispatcher struct {
	repo      *repository.Repository
	publisher notify.Publisher
	metrics   *metrics.SchedulingMetrics
	log       *zap.Logger
	now       func() time.Time
}

func (d *dispatcher) build(ctx context.Context, typ notify.EventType, b *entity.Booking,
	center *entity.Center, practitioner *entity.Practitioner) notify.Event {

	event := notify.Event{
		Type:      typ,
		Recipient: notify.Recipient{ID: b.PatientID},
		Booking: notify.BookingSnapshot{
			ID:            b.ID,
			TherapyType:   b.TherapyType,
			SessionDate:   b.SessionDate.Format(entity.DateLayout),
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			SessionNumber: b.SessionNumber,
			TotalSessions: b.TotalSessions,
			Status:        string(b.Status),
		},
		Practitioner: notify.Party{ID: b.PractitionerID},
		Center:       notify.Party{ID: b.CenterID},
		OccurredAt:   d.now().UTC(),
	}

	if patient, err := d.repo.Patient.FindByID(ctx, b.PatientID); err == nil && patient != nil {
		event.Recipient.Name = patient.Name
		event.Recipient.Email = patient.Email
		event.Recipient.Phone = patient.Phone
	}

	if center == nil {
		center, _ = d.repo.Center.FindByID(ctx, b.CenterID)
	}
	if center != nil {
		event.Center.Name = center.Name
	}

	if practitioner == nil {
		practitioner, _ = d.repo.Practitioner.FindByID(ctx, b.PractitionerID)
	}
	if practitioner != nil {
		event.Practitioner.Name = practitioner.Name
	}

	return event
}

func (d *dispatcher) publish(ctx context.Context, typ notify.EventType, b *entity.Booking,
	center *entity.Center, practitioner *entity.Practitioner) {

	ctx = context.WithoutCancel(ctx)
	event := d.build(ctx, typ, b, center, practitioner)

	err := d.publisher.Publish(ctx, event)
	d.metrics.ObserveNotification(string(typ), err)
	if err != nil {
		d.log.Error("Failed to publish notification event",
			zap.Error(err),
			zap.String("event", string(typ)),
			zap.String("booking_id", b.ID.String()),
		)
	}
}
