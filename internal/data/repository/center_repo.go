package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CenterRepository interface {
	Create(ctx context.Context, center *entity.Center) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Center, error)
	FindAll(ctx context.Context, filter entity.CenterFilter, limit, offset int) ([]*entity.Center, error)
	CountAll(ctx context.Context, filter entity.CenterFilter) (int64, error)
	Update(ctx context.Context, center *entity.Center) error
}

type centerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCenterRepository(db database.PgxIface, log *zap.Logger) CenterRepository {
	return &centerRepository{
		db:  db,
		log: log.With(zap.String("repository", "center")),
	}
}

const centerColumns = `id, name, address, city, state, phone, email, therapies, facilities,
	is_active, created_at, updated_at`

func scanCenter(row pgx.Row) (*entity.Center, error) {
	var c entity.Center
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.City,
		&c.State,
		&c.Phone,
		&c.Email,
		&c.Therapies,
		&c.Facilities,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *centerRepository) Create(ctx context.Context, center *entity.Center) error {
	query := `
		INSERT INTO centers (id, name, address, city, state, phone, email, therapies,
		                     facilities, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		center.ID,
		center.Name,
		center.Address,
		center.City,
		center.State,
		center.Phone,
		center.Email,
		center.Therapies,
		center.Facilities,
		center.IsActive,
		center.CreatedAt,
		center.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create center",
			zap.Error(err),
			zap.String("name", center.Name),
		)
		return apperror.Storage(err, "create center %s", center.Name)
	}

	return nil
}

func (r *centerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Center, error) {
	query := `SELECT ` + centerColumns + ` FROM centers WHERE id = $1`

	center, err := scanCenter(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find center by ID",
			zap.Error(err),
			zap.String("center_id", id.String()),
		)
		return nil, apperror.Storage(err, "find center %s", id)
	}

	return center, nil
}

// whereFilter builds the shared WHERE clause of list and count queries.
func whereFilter(filter entity.CenterFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE is_active = true")

	args := []any{}
	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		sb.WriteString(fmt.Sprintf(" AND city ILIKE $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, "%"+filter.State+"%")
		sb.WriteString(fmt.Sprintf(" AND state ILIKE $%d", len(args)))
	}
	if filter.Therapy != "" {
		args = append(args, filter.Therapy)
		sb.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM unnest(therapies) t WHERE lower(t) = lower($%d))", len(args)))
	}

	return sb.String(), args
}

func (r *centerRepository) FindAll(ctx context.Context, filter entity.CenterFilter, limit, offset int) ([]*entity.Center, error) {
	where, args := whereFilter(filter)
	args = append(args, limit, offset)
	query := `SELECT ` + centerColumns + ` FROM centers` + where +
		fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find centers",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, apperror.Storage(err, "find centers")
	}
	defer rows.Close()

	var centers []*entity.Center
	for rows.Next() {
		center, err := scanCenter(rows)
		if err != nil {
			r.log.Error("Failed to scan center row", zap.Error(err))
			return nil, apperror.Storage(err, "scan center row")
		}
		centers = append(centers, center)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err, "iterate center rows")
	}

	return centers, nil
}

func (r *centerRepository) CountAll(ctx context.Context, filter entity.CenterFilter) (int64, error) {
	where, args := whereFilter(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM centers`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count centers", zap.Error(err))
		return 0, apperror.Storage(err, "count centers")
	}

	return total, nil
}

func (r *centerRepository) Update(ctx context.Context, center *entity.Center) error {
	query := `
		UPDATE centers
		SET name = $2, address = $3, city = $4, state = $5, phone = $6, email = $7,
		    therapies = $8, facilities = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		center.ID,
		center.Name,
		center.Address,
		center.City,
		center.State,
		center.Phone,
		center.Email,
		center.Therapies,
		center.Facilities,
		center.IsActive,
		center.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update center",
			zap.Error(err),
			zap.String("center_id", center.ID.String()),
		)
		return apperror.Storage(err, "update center %s", center.ID)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("center %s not found", center.ID)
	}

	return nil
}
