package entity

import "github.com/google/uuid"

// Patient is owned by the profile service. AssignedTherapy and CenterID are
// a denormalised pointer to the latest booking, written on booking creation.
type Patient struct {
	BaseNoDelete
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	Phone           *string    `db:"phone"`
	AssignedTherapy *string    `db:"assigned_therapy"`
	CenterID        *uuid.UUID `db:"center_id"`
}
