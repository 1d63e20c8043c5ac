package usecase

import (
	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as resolved by the session middleware.
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// participates reports whether the actor is the booking's patient or its
// assigned practitioner.
func (a Actor) participates(b *entity.Booking) bool {
	switch a.Role {
	case entity.RolePatient:
		return b.PatientID == a.ID
	case entity.RolePractitioner:
		return b.PractitionerID == a.ID
	}
	return false
}

func (a Actor) canView(b *entity.Booking) error {
	if a.IsAdmin() || a.participates(b) {
		return nil
	}
	return apperror.AccessDenied("booking %s belongs to another patient or practitioner", b.ID)
}

// canManage gates status changes a patient may not make: confirming,
// starting and completing sessions.
func (a Actor) canManage(b *entity.Booking) error {
	if a.IsAdmin() || (a.Role == entity.RolePractitioner && b.PractitionerID == a.ID) {
		return nil
	}
	return apperror.AccessDenied("only the assigned practitioner or an admin can update booking %s", b.ID)
}
