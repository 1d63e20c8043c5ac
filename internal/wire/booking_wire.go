package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	limiter *middleware.RateLimiter,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.With(middleware.RequireRole(log, "patient"), limiter.Limit).Post("/", bookingHandler.CreateBooking)

		r.Get("/patient/{id}", bookingHandler.ListByPatient)
		r.Get("/practitioner/{id}", bookingHandler.ListByPractitioner)

		r.Get("/{id}", bookingHandler.GetBooking)
		r.With(limiter.Limit).Put("/{id}/reschedule", bookingHandler.Reschedule)
		r.Put("/{id}/cancel", bookingHandler.Cancel)
		r.With(middleware.RequireRole(log, "practitioner", "admin")).Put("/{id}/status", bookingHandler.UpdateStatus)
		r.With(middleware.RequireRole(log, "patient")).Put("/{id}/feedback", bookingHandler.AttachFeedback)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Get("/api/admin/centers/{id}/bookings", bookingHandler.ListByCenter)
	})
}
