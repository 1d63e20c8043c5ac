package repository

import (
	"context"
	"errors"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PractitionerRepository interface {
	Create(ctx context.Context, practitioner *entity.Practitioner) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error)
	// FindFirstActiveByCenter returns the earliest registered active
	// practitioner at the center, or nil when there is none.
	FindFirstActiveByCenter(ctx context.Context, centerID uuid.UUID) (*entity.Practitioner, error)
}

type practitionerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPractitionerRepository(db database.PgxIface, log *zap.Logger) PractitionerRepository {
	return &practitionerRepository{
		db:  db,
		log: log.With(zap.String("repository", "practitioner")),
	}
}

func (r *practitionerRepository) Create(ctx context.Context, p *entity.Practitioner) error {
	query := `
		INSERT INTO practitioners (id, name, specialization, center_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Specialization,
		p.CenterID,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create practitioner",
			zap.Error(err),
			zap.String("center_id", p.CenterID.String()),
		)
		return apperror.Storage(err, "create practitioner %s", p.Name)
	}

	return nil
}

func (r *practitionerRepository) findOne(ctx context.Context, op, query string, arg uuid.UUID) (*entity.Practitioner, error) {
	var p entity.Practitioner
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.Name,
		&p.Specialization,
		&p.CenterID,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.String("id", arg.String()))
		return nil, apperror.Storage(err, "%s %s", op, arg)
	}

	return &p, nil
}

func (r *practitionerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error) {
	query := `
		SELECT id, name, specialization, center_id, is_active, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`
	return r.findOne(ctx, "find practitioner", query, id)
}

func (r *practitionerRepository) FindFirstActiveByCenter(ctx context.Context, centerID uuid.UUID) (*entity.Practitioner, error) {
	query := `
		SELECT id, name, specialization, center_id, is_active, created_at, updated_at
		FROM practitioners
		WHERE center_id = $1 AND is_active = true
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.findOne(ctx, "find active practitioner for center", query, centerID)
}
