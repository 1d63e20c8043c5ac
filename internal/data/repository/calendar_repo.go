package repository

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CalendarRepository owns center slots. Reserve and Release are the only
// writes to slot reservation state.
type CalendarRepository interface {
	FindDaySlots(ctx context.Context, centerID uuid.UUID, date time.Time) ([]*entity.TimeSlot, error)
	// FindRange returns days in [from, to) that have at least one slot.
	FindRange(ctx context.Context, centerID uuid.UUID, from, to time.Time) ([]*entity.CalendarDay, error)
	// AddSlots publishes windows on a day and reports how many were new.
	AddSlots(ctx context.Context, centerID uuid.UUID, date time.Time, windows []entity.SlotWindow) (int, error)
	Reserve(ctx context.Context, key entity.SlotKey, holder uuid.UUID) error
	Release(ctx context.Context, key entity.SlotKey) error
}

type calendarRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCalendarRepository(db database.PgxIface, log *zap.Logger) CalendarRepository {
	return &calendarRepository{
		db:  db,
		log: log.With(zap.String("repository", "calendar")),
	}
}

const slotColumns = `id, center_id, slot_date, start_time, end_time, available, reserved_by,
	version, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.TimeSlot, error) {
	var s entity.TimeSlot
	err := row.Scan(
		&s.ID,
		&s.CenterID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Available,
		&s.ReservedBy,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Date = entity.NormalizeDate(s.Date)
	return &s, nil
}

func (r *calendarRepository) querySlots(ctx context.Context, op, query string, args ...any) ([]*entity.TimeSlot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query slots", zap.Error(err), zap.String("op", op))
		return nil, apperror.Storage(err, "%s", op)
	}
	defer rows.Close()

	var slots []*entity.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, apperror.Storage(err, "scan slot row")
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err, "iterate slot rows")
	}

	return slots, nil
}

func (r *calendarRepository) FindDaySlots(ctx context.Context, centerID uuid.UUID, date time.Time) ([]*entity.TimeSlot, error) {
	query := `SELECT ` + slotColumns + `
		FROM center_slots
		WHERE center_id = $1 AND slot_date = $2
		ORDER BY start_time, end_time`

	return r.querySlots(ctx, "find day slots", query, centerID, entity.NormalizeDate(date))
}

func (r *calendarRepository) FindRange(ctx context.Context, centerID uuid.UUID, from, to time.Time) ([]*entity.CalendarDay, error) {
	query := `SELECT ` + slotColumns + `
		FROM center_slots
		WHERE center_id = $1 AND slot_date >= $2 AND slot_date < $3
		ORDER BY slot_date, start_time, end_time`

	slots, err := r.querySlots(ctx, "find slot range", query,
		centerID, entity.NormalizeDate(from), entity.NormalizeDate(to))
	if err != nil {
		return nil, err
	}

	return groupByDay(slots), nil
}

// groupByDay expects slots ordered by date.
func groupByDay(slots []*entity.TimeSlot) []*entity.CalendarDay {
	var days []*entity.CalendarDay
	for _, slot := range slots {
		if n := len(days); n == 0 || !days[n-1].Date.Equal(slot.Date) {
			days = append(days, &entity.CalendarDay{Date: slot.Date})
		}
		last := days[len(days)-1]
		last.Slots = append(last.Slots, slot)
	}
	return days
}

func (r *calendarRepository) AddSlots(ctx context.Context, centerID uuid.UUID, date time.Time, windows []entity.SlotWindow) (int, error) {
	query := `
		INSERT INTO center_slots (id, center_id, slot_date, start_time, end_time, available,
		                          version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, 0, $6, $6)
		ON CONFLICT (center_id, slot_date, start_time, end_time) DO NOTHING
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, apperror.Storage(err, "begin add slots")
	}
	defer tx.Rollback(ctx)

	day := entity.NormalizeDate(date)
	now := time.Now()
	added := 0
	for _, w := range windows {
		tag, err := tx.Exec(ctx, query, uuid.New(), centerID, day, w.Start, w.End, now)
		if err != nil {
			r.log.Error("Failed to insert slot",
				zap.Error(err),
				zap.String("center_id", centerID.String()),
				zap.String("date", day.Format(entity.DateLayout)),
				zap.String("start", w.Start),
			)
			return 0, apperror.Storage(err, "insert slot %s-%s", w.Start, w.End)
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperror.Storage(err, "commit add slots")
	}

	return added, nil
}

// Reserve flips an available slot to held in one conditional update; a
// missing or already held slot affects zero rows.
func (r *calendarRepository) Reserve(ctx context.Context, key entity.SlotKey, holder uuid.UUID) error {
	query := `
		UPDATE center_slots
		SET available = false, reserved_by = $5, version = version + 1, updated_at = NOW()
		WHERE center_id = $1 AND slot_date = $2 AND start_time = $3 AND end_time = $4
		  AND available = true
	`

	result, err := r.db.Exec(ctx, query, key.CenterID, key.Date, key.Start, key.End, holder)
	if err != nil {
		r.log.Error("Failed to reserve slot",
			zap.Error(err),
			zap.String("slot", key.String()),
		)
		return apperror.Storage(err, "reserve slot %s", key)
	}

	if result.RowsAffected() == 0 {
		return apperror.Conflict("slot %s is not available", key)
	}

	return nil
}

func (r *calendarRepository) Release(ctx context.Context, key entity.SlotKey) error {
	query := `
		UPDATE center_slots
		SET available = true, reserved_by = NULL, version = version + 1, updated_at = NOW()
		WHERE center_id = $1 AND slot_date = $2 AND start_time = $3 AND end_time = $4
	`

	result, err := r.db.Exec(ctx, query, key.CenterID, key.Date, key.Start, key.End)
	if err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("slot", key.String()),
		)
		return apperror.Storage(err, "release slot %s", key)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("slot %s not found", key)
	}

	return nil
}
