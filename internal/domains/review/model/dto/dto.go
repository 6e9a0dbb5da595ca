package dto

import (
	"tourwise/internal/domains/review/model"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	gModel "tourwise/shared/model"
	"tourwise/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	RequestID string   `json:"request_id" validate:"required"`
	Rating    int      `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string   `json:"comment"    validate:"omitempty,max=2000"`
	Tags      []string `json:"tags"       validate:"omitempty,max=10,dive,max=50"`
	NoShow    bool     `json:"no_show"`
	PricePaid *float64 `json:"price_paid" validate:"omitempty,min=0"`
	Anonymous bool     `json:"anonymous"`
}

func (c *CreateReviewRequest) ToModel(studentID, touristID, user string) model.Review {
	var comment *string
	if c.Comment != constant.Empty {
		comment = &c.Comment
	}

	return model.Review{
		ID:        uuid.NewString(),
		RequestID: c.RequestID,
		StudentID: studentID,
		TouristID: touristID,
		Rating:    c.Rating,
		Comment:   comment,
		Tags:      c.Tags,
		NoShow:    c.NoShow,
		PricePaid: c.PricePaid,
		Anonymous: c.Anonymous,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewResponse struct {
	ID        string   `json:"id"`
	RequestID string   `json:"request_id"`
	StudentID string   `json:"student_id"`
	TouristID string   `json:"tourist_id,omitempty"`
	Rating    int      `json:"rating"`
	Comment   *string  `json:"comment"`
	Tags      []string `json:"tags"`
	NoShow    bool     `json:"no_show"`
	PricePaid *float64 `json:"price_paid"`
	Anonymous bool     `json:"anonymous"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.RequestID = model.RequestID
	r.StudentID = model.StudentID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Tags = model.Tags
	r.NoShow = model.NoShow
	r.PricePaid = model.PricePaid
	r.Anonymous = model.Anonymous

	// Anonymous reviews never expose the reviewer.
	if !model.Anonymous {
		r.TouristID = model.TouristID
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review) {
	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

type MetricsResponse struct {
	StudentID        string   `json:"student_id"`
	AverageRating    *float64 `json:"average_rating"`
	NoShowCount      int      `json:"no_show_count"`
	TripsHosted      int      `json:"trips_hosted"`
	TotalReviews     int      `json:"total_reviews"`
	CompletionRate   float64  `json:"completion_rate"`
	ReliabilityBadge string   `json:"reliability_badge"`
}
