package adaptor

import (
	"net/http"

	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationHandler serves the external reminder scheduler.
type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// DueReminders handles GET /api/admin/notifications/reminders?hours=
func (h *NotificationHandler) DueReminders(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	events, err := h.service.DueReminders(r.Context(), actor, utils.ParseInt(r.URL.Query().Get("hours"), 0))
	if err != nil {
		handleServiceError(h.log, w, err, "list due reminders")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// DueFollowUps handles GET /api/admin/notifications/followups
func (h *NotificationHandler) DueFollowUps(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	events, err := h.service.DueFollowUps(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "list due follow-ups")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// MarkReminderSent handles PUT /api/admin/notifications/{bookingId}/reminder-sent
func (h *NotificationHandler) MarkReminderSent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkReminderSent(r.Context(), actor, chi.URLParam(r, "bookingId")); err != nil {
		handleServiceError(h.log, w, err, "mark reminder sent")
		return
	}

	utils.ResponseSuccess(w, "Reminder marked as sent", nil)
}

// MarkFollowUpSent handles PUT /api/admin/notifications/{bookingId}/follow-up-sent
func (h *NotificationHandler) MarkFollowUpSent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkFollowUpSent(r.Context(), actor, chi.URLParam(r, "bookingId")); err != nil {
		handleServiceError(h.log, w, err, "mark follow-up sent")
		return
	}

	utils.ResponseSuccess(w, "Follow-up marked as sent", nil)
}
