package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func seedDay(t *testing.T, c *CalendarStore, center uuid.UUID, windows ...entity.SlotWindow) {
	t.Helper()
	_, err := c.AddSlots(context.Background(), center, june1, windows)
	require.NoError(t, err)
}

func TestCalendarAddSlotsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarStore()
	center := uuid.New()

	n, err := c.AddSlots(ctx, center, june1, []entity.SlotWindow{{Start: "11:00", End: "12:00"}, {Start: "09:00", End: "10:00"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = c.AddSlots(ctx, center, june1, []entity.SlotWindow{{Start: "09:00", End: "10:00"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	slots, err := c.FindDaySlots(ctx, center, june1)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "11:00", slots[1].StartTime)
}

func TestCalendarConcurrentReserveHasOneWinner(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarStore()
	center := uuid.New()
	seedDay(t, c, center, entity.SlotWindow{Start: "10:00", End: "11:00"})
	key := entity.NewSlotKey(center, june1, "10:00", "11:00")

	const attempts = 50
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := c.Reserve(ctx, key, uuid.New())
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, apperror.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
}

func TestCalendarReserveMissingSlot(t *testing.T) {
	c := NewCalendarStore()
	key := entity.NewSlotKey(uuid.New(), june1, "10:00", "11:00")

	err := c.Reserve(context.Background(), key, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCalendarReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarStore()
	center := uuid.New()
	seedDay(t, c, center,
		entity.SlotWindow{Start: "09:00", End: "10:00"},
		entity.SlotWindow{Start: "10:00", End: "11:00"},
	)

	first := entity.NewSlotKey(center, june1, "09:00", "10:00")
	other := entity.NewSlotKey(center, june1, "10:00", "11:00")
	holder, otherHolder := uuid.New(), uuid.New()
	require.NoError(t, c.Reserve(ctx, first, holder))
	require.NoError(t, c.Reserve(ctx, other, otherHolder))

	require.NoError(t, c.Release(ctx, first))
	require.NoError(t, c.Release(ctx, first))

	slots, err := c.FindDaySlots(ctx, center, june1)
	require.NoError(t, err)
	assert.True(t, slots[0].Available)
	assert.Nil(t, slots[0].ReservedBy)
	assert.False(t, slots[1].Available)
	require.NotNil(t, slots[1].ReservedBy)
	assert.Equal(t, otherHolder, *slots[1].ReservedBy)

	missing := entity.NewSlotKey(center, june1, "15:00", "16:00")
	assert.ErrorIs(t, c.Release(ctx, missing), apperror.ErrNotFound)
}

func TestCalendarSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarStore()
	center := uuid.New()
	seedDay(t, c, center, entity.SlotWindow{Start: "10:00", End: "11:00"})

	slots, err := c.FindDaySlots(ctx, center, june1)
	require.NoError(t, err)
	slots[0].Available = false

	again, err := c.FindDaySlots(ctx, center, june1)
	require.NoError(t, err)
	assert.True(t, again[0].Available)
}

func TestCalendarFindRange(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarStore()
	center := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := c.AddSlots(ctx, center, june1.AddDate(0, 0, i), []entity.SlotWindow{{Start: "09:00", End: "10:00"}})
		require.NoError(t, err)
	}
	_, err := c.AddSlots(ctx, uuid.New(), june1, []entity.SlotWindow{{Start: "09:00", End: "10:00"}})
	require.NoError(t, err)

	days, err := c.FindRange(ctx, center, june1.AddDate(0, 0, 1), june1.AddDate(0, 0, 4))
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, june1.AddDate(0, 0, 1), days[0].Date)
	assert.Equal(t, june1.AddDate(0, 0, 3), days[2].Date)
}
