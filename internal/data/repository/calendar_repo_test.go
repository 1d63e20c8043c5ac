package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func testKey() entity.SlotKey {
	return entity.NewSlotKey(uuid.New(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "10:00", "11:00")
}

func TestCalendarReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("claims available slot", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewCalendarRepository(mock, zap.NewNop())
		key, holder := testKey(), uuid.New()

		mock.ExpectExec("UPDATE center_slots").
			WithArgs(key.CenterID, key.Date, key.Start, key.End, holder).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Reserve(ctx, key, holder))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held or missing slot conflicts", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewCalendarRepository(mock, zap.NewNop())
		key, holder := testKey(), uuid.New()

		mock.ExpectExec("UPDATE center_slots").
			WithArgs(key.CenterID, key.Date, key.Start, key.End, holder).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Reserve(ctx, key, holder)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is a storage error", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewCalendarRepository(mock, zap.NewNop())
		key, holder := testKey(), uuid.New()

		mock.ExpectExec("UPDATE center_slots").
			WithArgs(key.CenterID, key.Date, key.Start, key.End, holder).
			WillReturnError(errors.New("connection reset"))

		err := repo.Reserve(ctx, key, holder)
		assert.ErrorIs(t, err, apperror.ErrStorage)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCalendarRelease(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewCalendarRepository(mock, zap.NewNop())
	key := testKey()

	// Releasing twice touches the same row both times.
	mock.ExpectExec("UPDATE center_slots").
		WithArgs(key.CenterID, key.Date, key.Start, key.End).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE center_slots").
		WithArgs(key.CenterID, key.Date, key.Start, key.End).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE center_slots").
		WithArgs(key.CenterID, key.Date, "12:00", "13:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Release(ctx, key))
	require.NoError(t, repo.Release(ctx, key))

	missing := key
	missing.Start, missing.End = "12:00", "13:00"
	assert.ErrorIs(t, repo.Release(ctx, missing), apperror.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupByDay(t *testing.T) {
	center := uuid.New()
	d1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	days := groupByDay([]*entity.TimeSlot{
		{CenterID: center, Date: d1, StartTime: "09:00", EndTime: "10:00", Available: true},
		{CenterID: center, Date: d1, StartTime: "10:00", EndTime: "11:00"},
		{CenterID: center, Date: d2, StartTime: "09:00", EndTime: "10:00", Available: true},
	})

	require.Len(t, days, 2)
	assert.Len(t, days[0].Slots, 2)
	assert.Equal(t, d2, days[1].Date)
	assert.Empty(t, groupByDay(nil))
}
