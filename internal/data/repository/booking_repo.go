package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingRepository is the durable side of the booking ledger. Status and
// schedule writes are conditional on the status the caller last observed.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Booking, error)
	FindByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*entity.Booking, error)
	FindByCenter(ctx context.Context, centerID uuid.UUID) ([]*entity.Booking, error)
	CountActiveByPatient(ctx context.Context, patientID uuid.UUID) (int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error
	// UpdateSchedule moves the booking to its new slot only while it still has
	// status from and still sits in slot old.
	UpdateSchedule(ctx context.Context, booking *entity.Booking, from entity.BookingStatus, old entity.SlotKey) error
	AttachFeedback(ctx context.Context, id, feedbackID uuid.UUID) error

	MarkReminderSent(ctx context.Context, id uuid.UUID) error
	MarkFollowUpSent(ctx context.Context, id uuid.UUID) error
	// FindDueReminders lists live bookings starting in [from, to] whose reminder is pending.
	FindDueReminders(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
	// FindDueFollowUps lists completed bookings that started in [from, to] with no follow-up yet.
	FindDueFollowUps(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, patient_id, practitioner_id, center_id, therapy_type, session_date,
	start_time, end_time, session_number, total_sessions, status, notes, feedback_id,
	reminder_sent, follow_up_sent, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.PatientID,
		&b.PractitionerID,
		&b.CenterID,
		&b.TherapyType,
		&b.SessionDate,
		&b.StartTime,
		&b.EndTime,
		&b.SessionNumber,
		&b.TotalSessions,
		&b.Status,
		&b.Notes,
		&b.FeedbackID,
		&b.ReminderSent,
		&b.FollowUpSent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.SessionDate = entity.NormalizeDate(b.SessionDate)
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, patient_id, practitioner_id, center_id, therapy_type,
		                      session_date, start_time, end_time, session_number, total_sessions,
		                      status, notes, reminder_sent, follow_up_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, false, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.PatientID,
		b.PractitionerID,
		b.CenterID,
		b.TherapyType,
		b.SessionDate,
		b.StartTime,
		b.EndTime,
		b.SessionNumber,
		b.TotalSessions,
		b.Status,
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", b.ID.String()),
			zap.String("patient_id", b.PatientID.String()),
		)
		return apperror.Storage(err, "create booking %s", b.ID)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, apperror.Storage(err, "find booking %s", id)
	}

	return booking, nil
}

func (r *bookingRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, apperror.Storage(err, "%s", op)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, apperror.Storage(err, "scan booking row")
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err, "iterate booking rows")
	}

	return bookings, nil
}

func (r *bookingRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE patient_id = $1
		ORDER BY session_date, start_time, created_at`
	return r.list(ctx, "find bookings by patient", query, patientID)
}

func (r *bookingRepository) FindByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE practitioner_id = $1
		ORDER BY session_date, start_time, created_at`
	return r.list(ctx, "find bookings by practitioner", query, practitionerID)
}

func (r *bookingRepository) FindByCenter(ctx context.Context, centerID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE center_id = $1
		ORDER BY session_date, start_time, created_at`
	return r.list(ctx, "find bookings by center", query, centerID)
}

func (r *bookingRepository) CountActiveByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE patient_id = $1 AND status <> 'cancelled'`

	var count int
	if err := r.db.QueryRow(ctx, query, patientID).Scan(&count); err != nil {
		r.log.Error("Failed to count patient bookings",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return 0, apperror.Storage(err, "count bookings for patient %s", patientID)
	}

	return count, nil
}

// UpdateStatus moves a booking from one status to another. Zero affected rows
// means the booking changed underneath the caller.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("to", string(to)),
		)
		return apperror.Storage(err, "update booking %s status", id)
	}

	if result.RowsAffected() == 0 {
		return apperror.Conflict("booking %s is no longer %s", id, from)
	}

	return nil
}

// UpdateSchedule writes the booking's date and window in place and resets it
// to scheduled, clearing the reminder flag for the new time.
func (r *bookingRepository) UpdateSchedule(ctx context.Context, b *entity.Booking, from entity.BookingStatus, old entity.SlotKey) error {
	query := `
		UPDATE bookings
		SET session_date = $3, start_time = $4, end_time = $5, status = $6,
		    reminder_sent = false, updated_at = $7
		WHERE id = $1 AND status = $2
		  AND session_date = $8 AND start_time = $9 AND end_time = $10
	`

	result, err := r.db.Exec(ctx, query,
		b.ID,
		from,
		b.SessionDate,
		b.StartTime,
		b.EndTime,
		b.Status,
		b.UpdatedAt,
		old.Date,
		old.Start,
		old.End,
	)
	if err != nil {
		r.log.Error("Failed to reschedule booking",
			zap.Error(err),
			zap.String("booking_id", b.ID.String()),
		)
		return apperror.Storage(err, "reschedule booking %s", b.ID)
	}

	if result.RowsAffected() == 0 {
		return apperror.Conflict("booking %s is no longer %s at %s", b.ID, from, old)
	}

	return nil
}

func (r *bookingRepository) AttachFeedback(ctx context.Context, id, feedbackID uuid.UUID) error {
	query := `
		UPDATE bookings
		SET feedback_id = $2, updated_at = NOW()
		WHERE id = $1 AND feedback_id IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, feedbackID)
	if err != nil {
		r.log.Error("Failed to attach feedback", zap.Error(err), zap.String("booking_id", id.String()))
		return apperror.Storage(err, "attach feedback to booking %s", id)
	}

	if result.RowsAffected() == 0 {
		return apperror.Conflict("booking %s already has feedback", id)
	}

	return nil
}

func (r *bookingRepository) markFlag(ctx context.Context, id uuid.UUID, column string) error {
	query := `UPDATE bookings SET ` + column + ` = true, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark booking flag",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("flag", column),
		)
		return apperror.Storage(err, "mark %s on booking %s", column, id)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("booking %s not found", id)
	}

	return nil
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	return r.markFlag(ctx, id, "reminder_sent")
}

func (r *bookingRepository) MarkFollowUpSent(ctx context.Context, id uuid.UUID) error {
	return r.markFlag(ctx, id, "follow_up_sent")
}

func (r *bookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status IN ('scheduled', 'confirmed')
		  AND reminder_sent = false
		  AND (session_date + start_time::time) BETWEEN $1 AND $2
		ORDER BY session_date, start_time`
	return r.list(ctx, "find due reminders", query, from.UTC(), to.UTC())
}

func (r *bookingRepository) FindDueFollowUps(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = 'completed'
		  AND follow_up_sent = false
		  AND (session_date + start_time::time) BETWEEN $1 AND $2
		ORDER BY session_date, start_time`
	return r.list(ctx, "find due follow-ups", query, from.UTC(), to.UTC())
}
