package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/metrics"
	"clinic-booking/internal/notify"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchedulingService is the only component that writes the calendar and the
// booking ledger together.
type SchedulingService interface {
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Reschedule(ctx context.Context, actor Actor, bookingID string, req *request.RescheduleRequest) (*response.BookingResponse, error)
	Cancel(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, bookingID string, req *request.UpdateStatusRequest) (*response.BookingResponse, error)
	AttachFeedback(ctx context.Context, actor Actor, bookingID string, req *request.FeedbackRequest) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	ListPatientBookings(ctx context.Context, actor Actor, patientID string) ([]response.BookingResponse, error)
	ListPractitionerBookings(ctx context.Context, actor Actor, practitionerID string) ([]response.BookingResponse, error)
	ListCenterBookings(ctx context.Context, actor Actor, centerID string) ([]response.BookingResponse, error)
}

type schedulingService struct {
	repo      *repository.Repository
	ledger    *Ledger
	sequencer *Sequencer
	events    *dispatcher
	metrics   *metrics.SchedulingMetrics
	log       *zap.Logger
}

func NewSchedulingService(repo *repository.Repository, publisher notify.Publisher, m *metrics.SchedulingMetrics, log *zap.Logger) SchedulingService {
	log = log.With(zap.String("service", "scheduling"))
	return &schedulingService{
		repo:      repo,
		ledger:    NewLedger(repo.Booking),
		sequencer: NewSequencer(repo.Booking),
		events: &dispatcher{
			repo:      repo,
			publisher: publisher,
			metrics:   m,
			log:       log,
			now:       time.Now,
		},
		metrics: m,
		log:     log,
	}
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s ID %q", kind, raw)
	}
	return id, nil
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return nil
}

// parseSlot validates a requested date and window for a center.
func parseSlot(centerID uuid.UUID, date, start, end string) (entity.SlotKey, error) {
	day, err := entity.ParseDate(date)
	if err != nil {
		return entity.SlotKey{}, err
	}
	if err := entity.ValidateWindow(start, end); err != nil {
		return entity.SlotKey{}, err
	}
	return entity.NewSlotKey(centerID, day, start, end), nil
}

func slotUnavailable(key entity.SlotKey, err error) error {
	return apperror.Wrap(apperror.KindSlotUnavailable, err,
		"slot %s %s-%s is no longer available, re-query available slots", key.DateString(), key.Start, key.End)
}

// reserve claims a slot for holder, translating a lost race into
// SlotUnavailable.
func (s *schedulingService) reserve(ctx context.Context, key entity.SlotKey, holder uuid.UUID) error {
	err := s.repo.Calendar.Reserve(ctx, key, holder)
	if errors.Is(err, apperror.ErrConflict) {
		s.metrics.ObserveSlotConflict()
		return slotUnavailable(key, err)
	}
	return err
}

// release undoes a reservation during rollback. It runs detached from the
// request context so a disconnecting client cannot strand the slot.
func (s *schedulingService) release(ctx context.Context, key entity.SlotKey, reason string) {
	err := s.repo.Calendar.Release(context.WithoutCancel(ctx), key)
	s.metrics.ObserveCompensation("release_slot", err)
	if err != nil {
		s.log.Error("Failed to release slot during rollback",
			zap.Error(err),
			zap.String("slot", key.String()),
			zap.String("reason", reason),
		)
	}
}

func (s *schedulingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (resp *response.BookingResponse, err error) {
	defer func() { s.metrics.ObserveOperation("create_booking", err) }()

	if actor.Role != entity.RolePatient {
		return nil, apperror.AccessDenied("only patients can book sessions")
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	centerID, err := parseID("center", req.CenterID)
	if err != nil {
		return nil, err
	}
	key, err := parseSlot(centerID, req.SessionDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	therapy := strings.TrimSpace(req.TherapyType)
	if therapy == "" {
		return nil, apperror.Validation("therapy type is required")
	}

	center, err := s.repo.Center.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.NotFound("center %s not found", centerID)
	}
	if !center.IsActive {
		return nil, apperror.New(apperror.KindInactive, "center %s is not accepting bookings", center.Name)
	}

	practitioner, err := s.repo.Practitioner.FindFirstActiveByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if practitioner == nil {
		return nil, apperror.New(apperror.KindNoPractitioner, "no active practitioner at center %s", center.Name)
	}

	bookingID := uuid.New()
	if err := s.reserve(ctx, key, bookingID); err != nil {
		s.log.Warn("Slot reservation failed",
			zap.Error(err),
			zap.String("slot", key.String()),
			zap.String("patient_id", actor.ID.String()),
		)
		return nil, err
	}

	booking, err := s.recordBooking(ctx, &entity.BookingDraft{
		ID:             bookingID,
		PatientID:      actor.ID,
		PractitionerID: practitioner.ID,
		CenterID:       centerID,
		TherapyType:    therapy,
		SessionDate:    key.Date,
		StartTime:      key.Start,
		EndTime:        key.End,
		TotalSessions:  req.TotalSessions,
		Notes:          req.Notes,
	})
	if err != nil {
		s.release(ctx, key, "create booking failed")
		s.log.Warn("Create booking rolled back",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("slot", key.String()),
		)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("patient_id", booking.PatientID.String()),
		zap.String("practitioner_id", booking.PractitionerID.String()),
		zap.String("slot", key.String()),
		zap.Int("session_number", booking.SessionNumber),
	)

	s.events.publish(ctx, notify.EventBookingConfirmation, booking, center, practitioner)

	out := response.BookingToResponse(booking, center.Name, practitioner.Name)
	return &out, nil
}

// recordBooking runs the steps after the slot is held: numbering, the ledger
// write and the patient pointer. A ledger entry whose patient update fails is
// voided before returning.
func (s *schedulingService) recordBooking(ctx context.Context, draft *entity.BookingDraft) (*entity.Booking, error) {
	next, err := s.sequencer.Next(ctx, draft.PatientID)
	if err != nil {
		return nil, err
	}
	draft.SessionNumber = next

	booking, err := s.ledger.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Patient.AssignCurrentTherapy(ctx, draft.PatientID, draft.TherapyType, draft.CenterID); err != nil {
		voidErr := s.repo.Booking.UpdateStatus(context.WithoutCancel(ctx), booking.ID,
			entity.BookingStatusScheduled, entity.BookingStatusCancelled)
		s.metrics.ObserveCompensation("void_booking", voidErr)
		if voidErr != nil {
			s.log.Error("Failed to void booking after patient update failure",
				zap.Error(voidErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		return nil, err
	}

	return booking, nil
}

func (s *schedulingService) Reschedule(ctx context.Context, actor Actor, bookingID string, req *request.RescheduleRequest) (resp *response.BookingResponse, err error) {
	defer func() { s.metrics.ObserveOperation("reschedule", err) }()

	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.ledger.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.canView(booking); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusRescheduled) {
		return nil, apperror.New(apperror.KindInvalidTransition,
			"booking %s is %s and cannot be rescheduled", id, booking.Status)
	}

	newKey, err := parseSlot(booking.CenterID, req.SessionDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	oldKey := booking.SlotKey()
	if newKey == oldKey {
		return nil, apperror.Validation("booking %s is already scheduled for %s %s-%s",
			id, newKey.DateString(), newKey.Start, newKey.End)
	}

	if err := s.reserve(ctx, newKey, booking.ID); err != nil {
		return nil, err
	}

	// The ledger write decides the race. Until it lands the old slot stays
	// held, so a losing reschedule only has its own new slot to give back.
	if err := s.ledger.MoveTo(ctx, booking, booking.Status, newKey); err != nil {
		s.release(ctx, newKey, "reschedule write failed")
		s.log.Warn("Reschedule rolled back",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("slot", newKey.String()),
		)
		return nil, err
	}

	s.releaseHeld(ctx, oldKey, id, "rescheduled")

	s.log.Info("Booking rescheduled",
		zap.String("booking_id", id.String()),
		zap.String("from", oldKey.String()),
		zap.String("to", newKey.String()),
	)

	s.events.publish(ctx, notify.EventReschedule, booking, nil, nil)

	return s.toResponse(ctx, booking), nil
}

// releaseHeld frees the slot a booking gave up after its ledger write landed.
// The booking no longer points at key, so a failure here strands the slot; it
// is logged and counted rather than returned.
func (s *schedulingService) releaseHeld(ctx context.Context, key entity.SlotKey, bookingID uuid.UUID, reason string) {
	err := s.repo.Calendar.Release(context.WithoutCancel(ctx), key)
	if errors.Is(err, apperror.ErrNotFound) {
		s.log.Warn("Released booking had no slot record",
			zap.String("slot", key.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return
	}
	s.metrics.ObserveCompensation("release_held_slot", err)
	if err != nil {
		s.log.Error("Failed to release slot after booking update",
			zap.Error(err),
			zap.String("slot", key.String()),
			zap.String("booking_id", bookingID.String()),
			zap.String("reason", reason),
		)
	}
}

func (s *schedulingService) Cancel(ctx context.Context, actor Actor, bookingID string) (resp *response.BookingResponse, err error) {
	defer func() { s.metrics.ObserveOperation("cancel", err) }()

	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.ledger.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.canView(booking); err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() || !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, apperror.New(apperror.KindInvalidTransition,
			"booking %s is already %s", id, booking.Status)
	}

	held := booking.Status.HoldsSlot()
	cancelled, err := s.ledger.Transition(ctx, booking, entity.BookingStatusCancelled)
	if err != nil {
		s.log.Warn("Cancel rejected",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, err
	}

	// A cancelled booking can no longer move, so the re-read slot is final.
	if held {
		s.releaseHeld(ctx, cancelled.SlotKey(), id, "cancelled")
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", id.String()),
		zap.String("by", actor.ID.String()),
		zap.String("role", string(actor.Role)),
	)

	s.events.publish(ctx, notify.EventCancellation, cancelled, nil, nil)

	return s.toResponse(ctx, cancelled), nil
}

func (s *schedulingService) UpdateStatus(ctx context.Context, actor Actor, bookingID string, req *request.UpdateStatusRequest) (resp *response.BookingResponse, err error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	target, ok := entity.ParseBookingStatus(req.Status)
	if !ok {
		return nil, apperror.Validation("unknown status %q", req.Status)
	}

	switch target {
	case entity.BookingStatusCancelled:
		return s.Cancel(ctx, actor, bookingID)
	case entity.BookingStatusRescheduled, entity.BookingStatusScheduled:
		return nil, apperror.Validation("use the reschedule operation to move a booking")
	}

	defer func() { s.metrics.ObserveOperation("update_status", err) }()

	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}
	booking, err := s.ledger.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.canManage(booking); err != nil {
		return nil, err
	}

	updated, err := s.ledger.Transition(ctx, booking, target)
	if err != nil {
		s.log.Warn("Status update rejected",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("target", string(target)),
		)
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", id.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(target)),
	)

	return s.toResponse(ctx, updated), nil
}

func (s *schedulingService) AttachFeedback(ctx context.Context, actor Actor, bookingID string, req *request.FeedbackRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}
	feedbackID, err := parseID("feedback", req.FeedbackID)
	if err != nil {
		return nil, err
	}

	booking, err := s.ledger.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RolePatient || booking.PatientID != actor.ID {
		return nil, apperror.AccessDenied("only the booking's patient can leave feedback")
	}
	if booking.Status != entity.BookingStatusCompleted {
		return nil, apperror.New(apperror.KindInvalidTransition,
			"feedback needs a completed session, booking %s is %s", id, booking.Status)
	}

	if err := s.ledger.AttachFeedback(ctx, id, feedbackID); err != nil {
		return nil, err
	}
	booking.FeedbackID = &feedbackID

	s.log.Info("Feedback linked",
		zap.String("booking_id", id.String()),
		zap.String("feedback_id", feedbackID.String()),
	)

	return s.toResponse(ctx, booking), nil
}

func (s *schedulingService) GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}
	booking, err := s.ledger.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.canView(booking); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, booking), nil
}

func (s *schedulingService) ListPatientBookings(ctx context.Context, actor Actor, patientID string) ([]response.BookingResponse, error) {
	id, err := parseID("patient", patientID)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RolePatient && actor.ID != id {
		return nil, apperror.AccessDenied("patients can only list their own bookings")
	}

	bookings, err := s.ledger.ByPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	// Practitioners see only the sessions assigned to them.
	if actor.Role == entity.RolePractitioner {
		bookings = filterBookings(bookings, func(b *entity.Booking) bool { return b.PractitionerID == actor.ID })
	}
	return s.toResponses(ctx, bookings), nil
}

func (s *schedulingService) ListPractitionerBookings(ctx context.Context, actor Actor, practitionerID string) ([]response.BookingResponse, error) {
	id, err := parseID("practitioner", practitionerID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.Role == entity.RolePractitioner && actor.ID == id) {
		return nil, apperror.AccessDenied("practitioners can only list their own schedule")
	}

	bookings, err := s.ledger.ByPractitioner(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, bookings), nil
}

func (s *schedulingService) ListCenterBookings(ctx context.Context, actor Actor, centerID string) ([]response.BookingResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperror.AccessDenied("admin access required")
	}
	id, err := parseID("center", centerID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.ledger.ByCenter(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, bookings), nil
}

func filterBookings(in []*entity.Booking, keep func(*entity.Booking) bool) []*entity.Booking {
	out := in[:0]
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// nameCache avoids repeated lookups when converting a list.
type nameCache struct {
	centers       map[uuid.UUID]string
	practitioners map[uuid.UUID]string
}

func (s *schedulingService) names(ctx context.Context, cache *nameCache, b *entity.Booking) (string, string) {
	center, ok := cache.centers[b.CenterID]
	if !ok {
		if c, err := s.repo.Center.FindByID(ctx, b.CenterID); err == nil && c != nil {
			center = c.Name
		}
		cache.centers[b.CenterID] = center
	}

	practitioner, ok := cache.practitioners[b.PractitionerID]
	if !ok {
		if p, err := s.repo.Practitioner.FindByID(ctx, b.PractitionerID); err == nil && p != nil {
			practitioner = p.Name
		}
		cache.practitioners[b.PractitionerID] = practitioner
	}

	return center, practitioner
}

func newNameCache() *nameCache {
	return &nameCache{centers: map[uuid.UUID]string{}, practitioners: map[uuid.UUID]string{}}
}

func (s *schedulingService) toResponse(ctx context.Context, b *entity.Booking) *response.BookingResponse {
	center, practitioner := s.names(ctx, newNameCache(), b)
	out := response.BookingToResponse(b, center, practitioner)
	return &out
}

func (s *schedulingService) toResponses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	cache := newNameCache()
	out := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		center, practitioner := s.names(ctx, cache, b)
		out[i] = response.BookingToResponse(b, center, practitioner)
	}
	return out
}
