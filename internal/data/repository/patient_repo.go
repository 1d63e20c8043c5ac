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

// PatientRepository covers the two touch points this module has with patient
// records: reading contact details and writing the current therapy pointer.
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	AssignCurrentTherapy(ctx context.Context, patientID uuid.UUID, therapy string, centerID uuid.UUID) error
}

type patientRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPatientRepository(db database.PgxIface, log *zap.Logger) PatientRepository {
	return &patientRepository{
		db:  db,
		log: log.With(zap.String("repository", "patient")),
	}
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	query := `
		SELECT id, name, email, phone, assigned_therapy, center_id, created_at, updated_at
		FROM patients
		WHERE id = $1
	`

	var p entity.Patient
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.AssignedTherapy,
		&p.CenterID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find patient", zap.Error(err), zap.String("patient_id", id.String()))
		return nil, apperror.Storage(err, "find patient %s", id)
	}

	return &p, nil
}

func (r *patientRepository) AssignCurrentTherapy(ctx context.Context, patientID uuid.UUID, therapy string, centerID uuid.UUID) error {
	query := `
		UPDATE patients
		SET assigned_therapy = $2, center_id = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, patientID, therapy, centerID)
	if err != nil {
		r.log.Error("Failed to update patient therapy",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return apperror.Storage(err, "update patient %s", patientID)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("patient %s not found", patientID)
	}

	return nil
}
