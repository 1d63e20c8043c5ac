package repository

import (
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session      SessionRepository
	Center       CenterRepository
	Calendar     CalendarRepository
	Practitioner PractitionerRepository
	Patient      PatientRepository
	Booking      BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session:      NewSessionRepository(db, log),
		Center:       NewCenterRepository(db, log),
		Calendar:     NewCalendarRepository(db, log),
		Practitioner: NewPractitionerRepository(db, log),
		Patient:      NewPatientRepository(db, log),
		Booking:      NewBookingRepository(db, log),
	}
}
