package adaptor

import (
	"clinic-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Center       *CenterHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Scheduling, log),
		Center:       NewCenterHandler(service.Center, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}
