package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/admin/notifications", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, "admin", "practitioner"))

		r.Get("/reminders", notificationHandler.DueReminders)
		r.Get("/followups", notificationHandler.DueFollowUps)
		r.Put("/{bookingId}/reminder-sent", notificationHandler.MarkReminderSent)
		r.Put("/{bookingId}/follow-up-sent", notificationHandler.MarkFollowUpSent)
	})
}
