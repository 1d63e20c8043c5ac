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

type BookingStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]entity.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{byID: make(map[uuid.UUID]entity.Booking)}
}

func copyBooking(b entity.Booking) *entity.Booking {
	if b.Notes != nil {
		notes := *b.Notes
		b.Notes = &notes
	}
	if b.FeedbackID != nil {
		id := *b.FeedbackID
		b.FeedbackID = &id
	}
	return &b
}

func (s *BookingStore) Create(_ context.Context, b *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[b.ID]; ok {
		return apperror.Conflict("booking %s already exists", b.ID)
	}
	s.byID[b.ID] = *copyBooking(*b)
	return nil
}

func (s *BookingStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (s *BookingStore) where(keep func(b *entity.Booking) bool) []*entity.Booking {
	s.mu.RLock()
	var out []*entity.Booking
	for _, b := range s.byID {
		if keep(&b) {
			out = append(out, copyBooking(b))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.SessionDate.Equal(b.SessionDate) {
			return a.SessionDate.Before(b.SessionDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out
}

func (s *BookingStore) FindByPatient(_ context.Context, patientID uuid.UUID) ([]*entity.Booking, error) {
	return s.where(func(b *entity.Booking) bool { return b.PatientID == patientID }), nil
}

func (s *BookingStore) FindByPractitioner(_ context.Context, practitionerID uuid.UUID) ([]*entity.Booking, error) {
	return s.where(func(b *entity.Booking) bool { return b.PractitionerID == practitionerID }), nil
}

func (s *BookingStore) FindByCenter(_ context.Context, centerID uuid.UUID) ([]*entity.Booking, error) {
	return s.where(func(b *entity.Booking) bool { return b.CenterID == centerID }), nil
}

func (s *BookingStore) CountActiveByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, b := range s.byID {
		if b.PatientID == patientID && b.Status != entity.BookingStatusCancelled {
			n++
		}
	}
	return n, nil
}

// mutate applies fn to the stored booking while holding the write lock.
func (s *BookingStore) mutate(id uuid.UUID, fn func(b *entity.Booking) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return apperror.NotFound("booking %s not found", id)
	}
	if err := fn(&b); err != nil {
		return err
	}
	b.UpdatedAt = time.Now()
	s.byID[id] = b
	return nil
}

func (s *BookingStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	return s.mutate(id, func(b *entity.Booking) error {
		if b.Status != from {
			return apperror.Conflict("booking %s is no longer %s", id, from)
		}
		b.Status = to
		return nil
	})
}

func (s *BookingStore) UpdateSchedule(_ context.Context, updated *entity.Booking, from entity.BookingStatus, old entity.SlotKey) error {
	return s.mutate(updated.ID, func(b *entity.Booking) error {
		if b.Status != from || b.SlotKey() != old {
			return apperror.Conflict("booking %s is no longer %s at %s", updated.ID, from, old)
		}
		b.SessionDate = updated.SessionDate
		b.StartTime = updated.StartTime
		b.EndTime = updated.EndTime
		b.Status = updated.Status
		b.ReminderSent = false
		return nil
	})
}

func (s *BookingStore) AttachFeedback(_ context.Context, id, feedbackID uuid.UUID) error {
	return s.mutate(id, func(b *entity.Booking) error {
		if b.FeedbackID != nil {
			return apperror.Conflict("booking %s already has feedback", id)
		}
		b.FeedbackID = &feedbackID
		return nil
	})
}

func (s *BookingStore) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	return s.mutate(id, func(b *entity.Booking) error {
		b.ReminderSent = true
		return nil
	})
}

func (s *BookingStore) MarkFollowUpSent(_ context.Context, id uuid.UUID) error {
	return s.mutate(id, func(b *entity.Booking) error {
		b.FollowUpSent = true
		return nil
	})
}

func within(b *entity.Booking, from, to time.Time) bool {
	at := b.StartsAt()
	return !at.Before(from) && !at.After(to)
}

func (s *BookingStore) FindDueReminders(_ context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return s.where(func(b *entity.Booking) bool {
		live := b.Status == entity.BookingStatusScheduled || b.Status == entity.BookingStatusConfirmed
		return live && !b.ReminderSent && within(b, from, to)
	}), nil
}

func (s *BookingStore) FindDueFollowUps(_ context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return s.where(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusCompleted && !b.FollowUpSent && within(b, from, to)
	}), nil
}
