package dto

import (
	"encoding/json"
	"time"
	"tourwise/internal/domains/booking/model"
	"tourwise/shared"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	gModel "tourwise/shared/model"
	"tourwise/shared/timezone"

	"github.com/google/uuid"
)

type CreateTripRequest struct {
	ContactEmail         string          `json:"contact_email"         validate:"required,email,max=100"`
	ContactPhone         string          `json:"contact_phone"         validate:"omitempty,max=20"`
	City                 string          `json:"city"                  validate:"required,max=100"`
	TripDates            json.RawMessage `json:"trip_dates"            validate:"required"`
	GroupSize            int             `json:"group_size"            validate:"required,min=1,max=50"`
	GroupType            string          `json:"group_type"            validate:"omitempty,max=50"`
	ServiceType          string          `json:"service_type"          validate:"required,oneof=itinerary_help guided_experience"`
	PreferredNationality string          `json:"preferred_nationality" validate:"omitempty,max=100"`
	PreferredLanguages   []string        `json:"preferred_languages"   validate:"omitempty,dive,max=50"`
	PreferredGender      string          `json:"preferred_gender"      validate:"omitempty,oneof=male female other no_preference"`
	Interests            []string        `json:"interests"             validate:"omitempty,dive,max=50"`
	Budget               *float64        `json:"budget"                validate:"omitempty,min=0"`
}

func (c *CreateTripRequest) ToModel(touristID, user string, expiresAt time.Time) model.TouristRequest {
	var contactPhone, preferredNationality *string
	if c.ContactPhone != constant.Empty {
		contactPhone = &c.ContactPhone
	}

	if c.PreferredNationality != constant.Empty {
		preferredNationality = &c.PreferredNationality
	}

	preferredGender := c.PreferredGender
	if preferredGender == constant.Empty {
		preferredGender = "no_preference"
	}

	return model.TouristRequest{
		ID:                   uuid.NewString(),
		TouristID:            touristID,
		ContactEmail:         c.ContactEmail,
		ContactPhone:         contactPhone,
		City:                 c.City,
		TripDates:            string(c.TripDates),
		GroupSize:            c.GroupSize,
		GroupType:            c.GroupType,
		ServiceType:          c.ServiceType,
		PreferredNationality: preferredNationality,
		PreferredLanguages:   c.PreferredLanguages,
		PreferredGender:      preferredGender,
		Interests:            c.Interests,
		Budget:               c.Budget,
		Status:               model.RequestStatusPending,
		ExpiresAt:            expiresAt,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type TripRequestResponse struct {
	ID                   string          `json:"id"`
	TouristID            string          `json:"tourist_id"`
	ContactEmail         string          `json:"contact_email"`
	ContactPhone         *string         `json:"contact_phone"`
	City                 string          `json:"city"`
	TripDates            json.RawMessage `json:"trip_dates"`
	GroupSize            int             `json:"group_size"`
	GroupType            string          `json:"group_type"`
	ServiceType          string          `json:"service_type"`
	PreferredNationality *string         `json:"preferred_nationality"`
	PreferredLanguages   []string        `json:"preferred_languages"`
	PreferredGender      string          `json:"preferred_gender"`
	Interests            []string        `json:"interests"`
	Budget               *float64        `json:"budget"`
	Status               string          `json:"status"`
	ExpiresAt            time.Time       `json:"expires_at"`
	AssignedStudentID    *string         `json:"assigned_student_id"`
	gDto.Metadata
}

func (r *TripRequestResponse) FromModel(model model.TouristRequest) {
	r.ID = model.ID
	r.TouristID = model.TouristID
	r.ContactEmail = model.ContactEmail
	r.ContactPhone = model.ContactPhone
	r.City = model.City
	r.TripDates = json.RawMessage(model.TripDates)
	r.GroupSize = model.GroupSize
	r.GroupType = model.GroupType
	r.ServiceType = model.ServiceType
	r.PreferredNationality = model.PreferredNationality
	r.PreferredLanguages = model.PreferredLanguages
	r.PreferredGender = model.PreferredGender
	r.Interests = model.Interests
	r.Budget = model.Budget
	r.Status = model.Status
	r.ExpiresAt = model.ExpiresAt
	r.AssignedStudentID = model.AssignedStudentID
	r.Metadata.FromModel(model.Metadata)
}

type GetTripRequestsResponse struct {
	Requests  []TripRequestResponse `json:"requests"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (r *GetTripRequestsResponse) FromModels(models []model.TouristRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]TripRequestResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}

type SelectGuidesRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,max=10,dive,required"`
}

type SelectionResponse struct {
	ID         string     `json:"id"`
	RequestID  string     `json:"request_id"`
	StudentID  string     `json:"student_id"`
	Status     string     `json:"status"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

func (r *SelectionResponse) FromModel(model model.RequestSelection) {
	r.ID = model.ID
	r.RequestID = model.RequestID
	r.StudentID = model.StudentID
	r.Status = model.Status
	r.AcceptedAt = model.AcceptedAt
}

type GetSelectionsResponse struct {
	Selections []SelectionResponse `json:"selections"`
}

func (r *GetSelectionsResponse) FromModels(models []model.RequestSelection) {
	r.Selections = make([]SelectionResponse, len(models))
	for i, mod := range models {
		r.Selections[i].FromModel(mod)
	}
}

type TouristContactInfo struct {
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type AcceptSelectionResponse struct {
	RequestID      string             `json:"request_id"`
	SelectionID    string             `json:"selection_id"`
	AcceptedAt     time.Time          `json:"accepted_at"`
	TouristContact TouristContactInfo `json:"tourist_contact"`
}

type RejectSelectionResponse struct {
	Selection SelectionResponse `json:"selection"`
}

type AssignGuideResponse struct {
	SelectionID string `json:"selection_id"`
}
