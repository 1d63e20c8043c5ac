package request

type CenterRequest struct {
	Name       string   `json:"name" validate:"required,max=150"`
	Address    string   `json:"address" validate:"required,max=300"`
	City       string   `json:"city" validate:"required,max=100"`
	State      string   `json:"state" validate:"required,max=100"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Therapies  []string `json:"therapies" validate:"required,min=1,dive,required"`
	Facilities []string `json:"facilities,omitempty" validate:"omitempty,dive,required"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

type CenterUpdateRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Address    *string  `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	City       *string  `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State      *string  `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Therapies  []string `json:"therapies,omitempty" validate:"omitempty,min=1,dive,required"`
	Facilities []string `json:"facilities,omitempty" validate:"omitempty,dive,required"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

type CenterFilterRequest struct {
	City    string
	State   string
	Therapy string
}

type SlotQueryRequest struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	Days int    `json:"days" validate:"omitempty,min=1"`
}

type SlotWindowRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type PublishSlotsRequest struct {
	Date  string              `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []SlotWindowRequest `json:"slots" validate:"required,min=1,max=96,dive"`
}

type PractitionerRequest struct {
	Name           string `json:"name" validate:"required,max=150"`
	Specialization string `json:"specialization" validate:"required,max=150"`
	IsActive       *bool  `json:"is_active,omitempty"`
}
