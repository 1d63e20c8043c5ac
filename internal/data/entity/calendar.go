package entity

import (
	"fmt"
	"time"

	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// TimeSlot is the unit of exclusivity: a fixed window on one center's day
// held by at most one booking.
type TimeSlot struct {
	BaseNoDelete
	CenterID   uuid.UUID  `db:"center_id"`
	Date       time.Time  `db:"slot_date"`
	StartTime  string     `db:"start_time"`
	EndTime    string     `db:"end_time"`
	Available  bool       `db:"available"`
	ReservedBy *uuid.UUID `db:"reserved_by"`
	Version    int        `db:"version"`
}

func (s *TimeSlot) Key() SlotKey {
	return SlotKey{CenterID: s.CenterID, Date: s.Date, Start: s.StartTime, End: s.EndTime}
}

type CalendarDay struct {
	Date  time.Time
	Slots []*TimeSlot
}

type SlotWindow struct {
	Start string
	End   string
}

type SlotKey struct {
	CenterID uuid.UUID
	Date     time.Time
	Start    string
	End      string
}

func NewSlotKey(centerID uuid.UUID, date time.Time, start, end string) SlotKey {
	return SlotKey{CenterID: centerID, Date: NormalizeDate(date), Start: start, End: end}
}

func (k SlotKey) DateString() string {
	return k.Date.Format(DateLayout)
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s@%s %s-%s", k.CenterID, k.DateString(), k.Start, k.End)
}

// NormalizeDate truncates t to midnight UTC of its calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses a zero-padded 24h HH:MM value into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != len(ClockLayout) {
		return 0, apperror.Validation("invalid time %q, expected HH:MM", s)
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, apperror.Validation("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateWindow checks that start and end are well formed and start < end.
func ValidateWindow(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if s >= e {
		return apperror.Validation("session window %s-%s must start before it ends", start, end)
	}
	return nil
}

// StartsAt combines a date with an HH:MM clock value in UTC.
func StartsAt(date time.Time, clock string) time.Time {
	minutes, err := ParseClock(clock)
	if err != nil {
		return NormalizeDate(date)
	}
	return NormalizeDate(date).Add(time.Duration(minutes) * time.Minute)
}
