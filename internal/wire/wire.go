package wire

import (
	"net/http"

	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/metrics"
	"clinic-booking/internal/notify"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes over repo. Metrics register on
// registry, which also backs /metrics.
func Wiring(
	repo *repository.Repository,
	publisher notify.Publisher,
	registry *prometheus.Registry,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	m := metrics.NewSchedulingMetrics(registry)
	service := usecase.NewService(repo, publisher, m, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, m, registry, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.SchedulingMetrics,
	registry *prometheus.Registry,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Metrics(m))

	limiter := middleware.NewRateLimiter(config.RateLimit, logger)

	wireCenter(r, handler.Center, repo, logger)
	wireBooking(r, handler.Booking, repo, limiter, logger)
	wireNotification(r, handler.Notification, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
