package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type CenterResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Therapies  []string  `json:"therapies"`
	Facilities []string  `json:"facilities,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CenterDetailResponse struct {
	CenterResponse
	Days []CalendarDayResponse `json:"days"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type CalendarDayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

type PublishSlotsResponse struct {
	Added int                 `json:"added"`
	Day   CalendarDayResponse `json:"day"`
}

type PractitionerResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	CenterID       string `json:"center_id"`
	IsActive       bool   `json:"is_active"`
}

func CenterToResponse(c *entity.Center) CenterResponse {
	return CenterResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		Phone:      c.Phone,
		Email:      c.Email,
		Therapies:  c.Therapies,
		Facilities: c.Facilities,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func DayToResponse(date time.Time, slots []*entity.TimeSlot) CalendarDayResponse {
	resp := CalendarDayResponse{
		Date:  date.Format(entity.DateLayout),
		Slots: make([]SlotResponse, len(slots)),
	}
	for i, s := range slots {
		resp.Slots[i] = SlotResponse{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available}
	}
	return resp
}

func DaysToResponse(days []*entity.CalendarDay) []CalendarDayResponse {
	out := make([]CalendarDayResponse, len(days))
	for i, d := range days {
		out[i] = DayToResponse(d.Date, d.Slots)
	}
	return out
}

func PractitionerToResponse(p *entity.Practitioner) PractitionerResponse {
	return PractitionerResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Specialization: p.Specialization,
		CenterID:       p.CenterID.String(),
		IsActive:       p.IsActive,
	}
}
