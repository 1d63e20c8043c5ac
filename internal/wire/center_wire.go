package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCenter(
	r chi.Router,
	centerHandler *adaptor.CenterHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Public directory
	r.Get("/api/centers", centerHandler.GetCenters)
	r.Get("/api/centers/{id}", centerHandler.GetCenterByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Get("/api/centers/{id}/slots", centerHandler.GetSlots)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/admin/centers", centerHandler.CreateCenter)
		r.Put("/api/admin/centers/{id}", centerHandler.UpdateCenter)
		r.Post("/api/admin/centers/{id}/slots", centerHandler.PublishSlots)
		r.Post("/api/admin/centers/{id}/practitioners", centerHandler.AddPractitioner)
	})
}
