package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFindFirstActiveByCenter(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPractitionerRepository(mock, zap.NewNop())

	centerID, practitionerID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM practitioners").
		WithArgs(centerID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "specialization", "center_id", "is_active", "created_at", "updated_at",
		}).AddRow(practitionerID, "Dr. Rao", "Occupational Therapy", centerID, true, now, now))

	p, err := repo.FindFirstActiveByCenter(ctx, centerID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, practitionerID, p.ID)
	assert.Equal(t, "Dr. Rao", p.Name)

	mock.ExpectQuery("FROM practitioners").WithArgs(centerID).WillReturnError(pgx.ErrNoRows)

	p, err = repo.FindFirstActiveByCenter(ctx, centerID)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, mock.ExpectationsWereMet())
}
