package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/notify"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// followUpWindow bounds how far back a completed session still gets a
// post-session message.
const followUpWindow = 24 * time.Hour

// NotificationService is polled by the external scheduler that delivers
// reminders. It reports what is due and records what was sent; it never
// delivers anything itself.
type NotificationService interface {
	DueReminders(ctx context.Context, actor Actor, hours int) ([]notify.Event, error)
	MarkReminderSent(ctx context.Context, actor Actor, bookingID string) error
	DueFollowUps(ctx context.Context, actor Actor) ([]notify.Event, error)
	MarkFollowUpSent(ctx context.Context, actor Actor, bookingID string) error
}

type notificationService struct {
	repo   *repository.Repository
	events *dispatcher
	config utils.SchedulingConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewNotificationService(repo *repository.Repository, config utils.SchedulingConfig, log *zap.Logger) NotificationService {
	if config.ReminderHours < 1 {
		config.ReminderHours = utils.DefaultSchedulingConfig().ReminderHours
	}
	log = log.With(zap.String("service", "notification"))
	return &notificationService{
		repo: repo,
		// Events here are only built and returned to the poller.
		events: &dispatcher{repo: repo, log: log, now: time.Now},
		config: config,
		log:    log,
		now:    time.Now,
	}
}

func requireStaff(actor Actor) error {
	if actor.IsAdmin() || actor.Role == entity.RolePractitioner {
		return nil
	}
	return apperror.AccessDenied("staff access required")
}

// reminderType picks the short reminder for sessions starting within the hour.
func reminderType(startsAt, now time.Time) notify.EventType {
	if startsAt.Sub(now) <= time.Hour {
		return notify.EventReminder1h
	}
	return notify.EventReminder24h
}

func (s *notificationService) DueReminders(ctx context.Context, actor Actor, hours int) ([]notify.Event, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if hours < 1 {
		hours = s.config.ReminderHours
	}

	now := s.now().UTC()
	bookings, err := s.repo.Booking.FindDueReminders(ctx, now, now.Add(time.Duration(hours)*time.Hour))
	if err != nil {
		s.log.Error("Failed to scan due reminders", zap.Error(err))
		return nil, err
	}

	events := make([]notify.Event, len(bookings))
	for i, b := range bookings {
		events[i] = s.events.build(ctx, reminderType(b.StartsAt(), now), b, nil, nil)
	}

	s.log.Debug("Due reminders scanned", zap.Int("hours", hours), zap.Int("due", len(events)))
	return events, nil
}

func (s *notificationService) DueFollowUps(ctx context.Context, actor Actor) ([]notify.Event, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	bookings, err := s.repo.Booking.FindDueFollowUps(ctx, now.Add(-followUpWindow), now)
	if err != nil {
		s.log.Error("Failed to scan due follow-ups", zap.Error(err))
		return nil, err
	}

	events := make([]notify.Event, len(bookings))
	for i, b := range bookings {
		events[i] = s.events.build(ctx, notify.EventPostSession, b, nil, nil)
	}
	return events, nil
}

func (s *notificationService) MarkReminderSent(ctx context.Context, actor Actor, bookingID string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return err
	}
	if err := s.repo.Booking.MarkReminderSent(ctx, id); err != nil {
		return err
	}
	s.log.Info("Reminder marked sent", zap.String("booking_id", bookingID))
	return nil
}

func (s *notificationService) MarkFollowUpSent(ctx context.Context, actor Actor, bookingID string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return err
	}
	if err := s.repo.Booking.MarkFollowUpSent(ctx, id); err != nil {
		return err
	}
	s.log.Info("Follow-up marked sent", zap.String("booking_id", bookingID))
	return nil
}
