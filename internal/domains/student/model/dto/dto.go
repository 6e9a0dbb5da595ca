package dto

import (
	"tourwise/internal/domains/student/model"
	"tourwise/shared"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	gModel "tourwise/shared/model"
	"tourwise/shared/timezone"

	"github.com/google/uuid"
)

type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time"  validate:"required"`
	EndTime   string `json:"end_time"    validate:"required"`
}

type CreateStudentRequest struct {
	City         string             `json:"city"         validate:"required,max=100"`
	Nationality  string             `json:"nationality"  validate:"required,max=100"`
	Gender       string             `json:"gender"       validate:"required,oneof=male female other"`
	Languages    []string           `json:"languages"    validate:"required,min=1,dive,max=50"`
	Interests    []string           `json:"interests"    validate:"omitempty,dive,max=50"`
	Bio          string             `json:"bio"          validate:"omitempty,max=1000"`
	Availability []AvailabilitySlot `json:"availability" validate:"omitempty,dive"`
}

func (c *CreateStudentRequest) ToModel(userID, user string) model.Student {
	var bio *string
	if c.Bio != constant.Empty {
		bio = &c.Bio
	}

	return model.Student{
		ID:               uuid.NewString(),
		UserID:           userID,
		City:             c.City,
		Status:           model.StatusPendingApproval,
		Nationality:      c.Nationality,
		Gender:           c.Gender,
		Languages:        c.Languages,
		Interests:        c.Interests,
		Bio:              bio,
		ReliabilityBadge: model.BadgeNone,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func (c *CreateStudentRequest) ToAvailabilityModels(studentID, user string) []model.Availability {
	models := make([]model.Availability, len(c.Availability))
	for i, slot := range c.Availability {
		models[i] = model.Availability{
			ID:        uuid.NewString(),
			StudentID: studentID,
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return models
}

type UpdateStudentRequest struct {
	City        string   `db:"city"        json:"city"        validate:"omitempty,max=100"`
	Nationality string   `db:"nationality" json:"nationality" validate:"omitempty,max=100"`
	Gender      string   `db:"gender"      json:"gender"      validate:"omitempty,oneof=male female other"`
	Languages   []string `json:"languages"                    validate:"omitempty,min=1,dive,max=50"`
	Interests   []string `json:"interests"                    validate:"omitempty,dive,max=50"`
	Bio         string   `db:"bio"         json:"bio"         validate:"omitempty,max=1000"`
}

type UpdateStudentStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=PENDING_APPROVAL APPROVED SUSPENDED"`
}

type AvailabilityResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type StudentResponse struct {
	ID                 string                 `json:"id"`
	UserID             string                 `json:"user_id"`
	City               string                 `json:"city"`
	Status             string                 `json:"status"`
	Nationality        string                 `json:"nationality"`
	Gender             string                 `json:"gender"`
	Languages          []string               `json:"languages"`
	Interests          []string               `json:"interests"`
	Bio                *string                `json:"bio"`
	AverageRating      *float64               `json:"average_rating"`
	NoShowCount        int                    `json:"no_show_count"`
	TripsHosted        int                    `json:"trips_hosted"`
	ReliabilityBadge   string                 `json:"reliability_badge"`
	VerificationDocURL *string                `json:"verification_doc_url,omitempty"`
	Availability       []AvailabilityResponse `json:"availability,omitempty"`
	gDto.Metadata
}

func (r *StudentResponse) FromModel(model model.Student) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.City = model.City
	r.Status = model.Status
	r.Nationality = model.Nationality
	r.Gender = model.Gender
	r.Languages = model.Languages
	r.Interests = model.Interests
	r.Bio = model.Bio
	r.AverageRating = model.AverageRating
	r.NoShowCount = model.NoShowCount
	r.TripsHosted = model.TripsHosted
	r.ReliabilityBadge = model.ReliabilityBadge
	r.VerificationDocURL = model.VerificationDocURL
	r.Metadata.FromModel(model.Metadata)
}

func (r *StudentResponse) WithAvailability(slots []model.Availability) {
	r.Availability = make([]AvailabilityResponse, len(slots))
	for i, slot := range slots {
		r.Availability[i] = AvailabilityResponse{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
	}
}

type GetStudentsResponse struct {
	Students  []StudentResponse `json:"students"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetStudentsResponse) FromModels(models []model.Student, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Students = make([]StudentResponse, len(models))
	for i, mod := range models {
		r.Students[i].FromModel(mod)
	}
}

type ReplaceAvailabilityRequest struct {
	Availability []AvailabilitySlot `json:"availability" validate:"required,dive"`
}

type UploadVerificationDocResponse struct {
	URL string `json:"url"`
}
