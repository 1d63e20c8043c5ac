package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type BookingResponse struct {
	ID               string    `json:"id"`
	PatientID        string    `json:"patient_id"`
	PractitionerID   string    `json:"practitioner_id"`
	PractitionerName string    `json:"practitioner_name,omitempty"`
	CenterID         string    `json:"center_id"`
	CenterName       string    `json:"center_name,omitempty"`
	TherapyType      string    `json:"therapy_type"`
	SessionDate      string    `json:"session_date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	SessionNumber    int       `json:"session_number"`
	TotalSessions    int       `json:"total_sessions"`
	Status           string    `json:"status"`
	Notes            *string   `json:"notes,omitempty"`
	FeedbackID       *string   `json:"feedback_id,omitempty"`
	ReminderSent     bool      `json:"reminder_sent"`
	FollowUpSent     bool      `json:"follow_up_sent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BookingToResponse converts a booking; names are resolved by the caller.
func BookingToResponse(b *entity.Booking, centerName, practitionerName string) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID.String(),
		PatientID:        b.PatientID.String(),
		PractitionerID:   b.PractitionerID.String(),
		PractitionerName: practitionerName,
		CenterID:         b.CenterID.String(),
		CenterName:       centerName,
		TherapyType:      b.TherapyType,
		SessionDate:      b.SessionDate.Format(entity.DateLayout),
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		SessionNumber:    b.SessionNumber,
		TotalSessions:    b.TotalSessions,
		Status:           string(b.Status),
		Notes:            b.Notes,
		ReminderSent:     b.ReminderSent,
		FollowUpSent:     b.FollowUpSent,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.FeedbackID != nil {
		id := b.FeedbackID.String()
		resp.FeedbackID = &id
	}
	return resp
}
