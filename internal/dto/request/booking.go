package request

type CreateBookingRequest struct {
	CenterID      string  `json:"center_id" validate:"required,uuid"`
	TherapyType   string  `json:"therapy_type" validate:"required,max=100"`
	SessionDate   string  `json:"session_date" validate:"required,datetime=2006-01-02"`
	StartTime     string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime       string  `json:"end_time" validate:"required,datetime=15:04"`
	TotalSessions int     `json:"total_sessions" validate:"required,min=1,max=100"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type RescheduleRequest struct {
	SessionDate string `json:"session_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type FeedbackRequest struct {
	FeedbackID string `json:"feedback_id" validate:"required,uuid"`
}
