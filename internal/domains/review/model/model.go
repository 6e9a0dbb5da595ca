package model

import (
	"tourwise/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID        = "id"
	FieldRequestID = "request_id"
	FieldStudentID = "student_id"
	FieldTouristID = "tourist_id"
	FieldRating    = "rating"
	FieldComment   = "comment"
	FieldTags      = "tags"
	FieldNoShow    = "no_show"
	FieldPricePaid = "price_paid"
	FieldAnonymous = "anonymous"
)

// Review is immutable once written: a request can be reviewed at most once
// (unique request_id) and corrections happen by recomputing the guide's
// aggregates, never by editing the review.
type Review struct {
	ID        string         `db:"id"`
	RequestID string         `db:"request_id"`
	StudentID string         `db:"student_id"`
	TouristID string         `db:"tourist_id"`
	Rating    int            `db:"rating"`
	Comment   *string        `db:"comment"`
	Tags      pq.StringArray `db:"tags"`
	NoShow    bool           `db:"no_show"`
	PricePaid *float64       `db:"price_paid"`
	Anonymous bool           `db:"anonymous"`
	model.Metadata
}
