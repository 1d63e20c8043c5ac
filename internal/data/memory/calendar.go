package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

type dayKey struct {
	center uuid.UUID
	date   string
}

// day serialises every reservation change on one center's date.
type day struct {
	mu    sync.Mutex
	date  time.Time
	slots []*entity.TimeSlot
}

type CalendarStore struct {
	mu   sync.RWMutex
	days map[dayKey]*day
}

func NewCalendarStore() *CalendarStore {
	return &CalendarStore{days: make(map[dayKey]*day)}
}

func keyOf(centerID uuid.UUID, date time.Time) dayKey {
	return dayKey{center: centerID, date: date.Format(entity.DateLayout)}
}

func (c *CalendarStore) lookup(centerID uuid.UUID, date time.Time) *day {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.days[keyOf(centerID, date)]
}

func (c *CalendarStore) getOrCreate(centerID uuid.UUID, date time.Time) *day {
	k := keyOf(centerID, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.days[k]
	if !ok {
		d = &day{date: entity.NormalizeDate(date)}
		c.days[k] = d
	}
	return d
}

func (d *day) snapshot() []*entity.TimeSlot {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*entity.TimeSlot, len(d.slots))
	for i, s := range d.slots {
		cp := *s
		if s.ReservedBy != nil {
			holder := *s.ReservedBy
			cp.ReservedBy = &holder
		}
		out[i] = &cp
	}
	return out
}

func (d *day) find(start, end string) *entity.TimeSlot {
	for _, s := range d.slots {
		if s.StartTime == start && s.EndTime == end {
			return s
		}
	}
	return nil
}

func (c *CalendarStore) FindDaySlots(_ context.Context, centerID uuid.UUID, date time.Time) ([]*entity.TimeSlot, error) {
	d := c.lookup(centerID, date)
	if d == nil {
		return nil, nil
	}
	return d.snapshot(), nil
}

func (c *CalendarStore) FindRange(_ context.Context, centerID uuid.UUID, from, to time.Time) ([]*entity.CalendarDay, error) {
	from, to = entity.NormalizeDate(from), entity.NormalizeDate(to)

	c.mu.RLock()
	var matched []*day
	for k, d := range c.days {
		if k.center == centerID && !d.date.Before(from) && d.date.Before(to) {
			matched = append(matched, d)
		}
	}
	c.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].date.Before(matched[j].date) })

	var days []*entity.CalendarDay
	for _, d := range matched {
		slots := d.snapshot()
		if len(slots) == 0 {
			continue
		}
		days = append(days, &entity.CalendarDay{Date: d.date, Slots: slots})
	}
	return days, nil
}

func (c *CalendarStore) AddSlots(_ context.Context, centerID uuid.UUID, date time.Time, windows []entity.SlotWindow) (int, error) {
	d := c.getOrCreate(centerID, date)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	added := 0
	for _, w := range windows {
		if d.find(w.Start, w.End) != nil {
			continue
		}
		d.slots = append(d.slots, &entity.TimeSlot{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			CenterID:     centerID,
			Date:         d.date,
			StartTime:    w.Start,
			EndTime:      w.End,
			Available:    true,
		})
		added++
	}

	sort.SliceStable(d.slots, func(i, j int) bool {
		if d.slots[i].StartTime == d.slots[j].StartTime {
			return d.slots[i].EndTime < d.slots[j].EndTime
		}
		return d.slots[i].StartTime < d.slots[j].StartTime
	})

	return added, nil
}

func (c *CalendarStore) Reserve(_ context.Context, key entity.SlotKey, holder uuid.UUID) error {
	d := c.lookup(key.CenterID, key.Date)
	if d == nil {
		return apperror.Conflict("slot %s is not available", key)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	slot := d.find(key.Start, key.End)
	if slot == nil || !slot.Available {
		return apperror.Conflict("slot %s is not available", key)
	}

	slot.Available = false
	slot.ReservedBy = &holder
	slot.Version++
	slot.UpdatedAt = time.Now()
	return nil
}

func (c *CalendarStore) Release(_ context.Context, key entity.SlotKey) error {
	d := c.lookup(key.CenterID, key.Date)
	if d == nil {
		return apperror.NotFound("slot %s not found", key)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	slot := d.find(key.Start, key.End)
	if slot == nil {
		return apperror.NotFound("slot %s not found", key)
	}

	slot.Available = true
	slot.ReservedBy = nil
	slot.Version++
	slot.UpdatedAt = time.Now()
	return nil
}
