// Package memory holds single-process implementations of the repository
// interfaces for tests and embedding. Slot exclusivity holds only within one
// process.
package memory

import (
	"clinic-booking/internal/data/repository"
)

type Store struct {
	Sessions      *SessionStore
	Centers       *CenterStore
	Calendar      *CalendarStore
	Practitioners *PractitionerStore
	Patients      *PatientStore
	Bookings      *BookingStore
}

func NewStore() *Store {
	return &Store{
		Sessions:      NewSessionStore(),
		Centers:       NewCenterStore(),
		Calendar:      NewCalendarStore(),
		Practitioners: NewPractitionerStore(),
		Patients:      NewPatientStore(),
		Bookings:      NewBookingStore(),
	}
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Session:      s.Sessions,
		Center:       s.Centers,
		Calendar:     s.Calendar,
		Practitioner: s.Practitioners,
		Patient:      s.Patients,
		Booking:      s.Bookings,
	}
}
