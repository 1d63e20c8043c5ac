package usecase

import (
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/metrics"
	"clinic-booking/internal/notify"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Scheduling   SchedulingService
	Center       CenterService
	Notification NotificationService
}

func NewService(repo *repository.Repository, publisher notify.Publisher, m *metrics.SchedulingMetrics, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Scheduling:   NewSchedulingService(repo, publisher, m, log),
		Center:       NewCenterService(repo, config.Scheduling, log),
		Notification: NewNotificationService(repo, config.Scheduling, log),
	}
}
