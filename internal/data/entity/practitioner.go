package entity

import "github.com/google/uuid"

type Practitioner struct {
	BaseNoDelete
	Name           string    `db:"name"`
	Specialization string    `db:"specialization"`
	CenterID       uuid.UUID `db:"center_id"`
	IsActive       bool      `db:"is_active"`
}
