package usecase

import (
	"context"

	"clinic-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Sequencer numbers a patient's sessions across every course they have
// booked, not per therapy.
type Sequencer struct {
	bookings repository.BookingRepository
}

func NewSequencer(bookings repository.BookingRepository) *Sequencer {
	return &Sequencer{bookings: bookings}
}

// Next returns the count of the patient's non-cancelled bookings plus one.
func (s *Sequencer) Next(ctx context.Context, patientID uuid.UUID) (int, error) {
	n, err := s.bookings.CountActiveByPatient(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}
