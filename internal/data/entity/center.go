package entity

import "strings"

type Center struct {
	BaseNoDelete
	Name       string   `db:"name"`
	Address    string   `db:"address"`
	City       string   `db:"city"`
	State      string   `db:"state"`
	Phone      *string  `db:"phone"`
	Email      *string  `db:"email"`
	Therapies  []string `db:"therapies"`
	Facilities []string `db:"facilities"`
	IsActive   bool     `db:"is_active"`
}

func (c *Center) OffersTherapy(name string) bool {
	for _, t := range c.Therapies {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

type CenterFilter struct {
	City    string
	State   string
	Therapy string
}
