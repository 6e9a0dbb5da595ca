package model

import (
	"tourwise/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "students"
	EntityName = "student"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldCity               = "city"
	FieldStatus             = "status"
	FieldNationality        = "nationality"
	FieldGender             = "gender"
	FieldLanguages          = "languages"
	FieldInterests          = "interests"
	FieldBio                = "bio"
	FieldAverageRating      = "average_rating"
	FieldNoShowCount        = "no_show_count"
	FieldTripsHosted        = "trips_hosted"
	FieldReliabilityBadge   = "reliability_badge"
	FieldVerificationDocURL = "verification_doc_url"
)

const (
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusSuspended       = "SUSPENDED"
)

const (
	BadgeNone   = "none"
	BadgeBronze = "bronze"
	BadgeSilver = "silver"
	BadgeGold   = "gold"
)

type Student struct {
	ID                 string         `db:"id"`
	UserID             string         `db:"user_id"`
	City               string         `db:"city"`
	Status             string         `db:"status"`
	Nationality        string         `db:"nationality"`
	Gender             string         `db:"gender"`
	Languages          pq.StringArray `db:"languages"`
	Interests          pq.StringArray `db:"interests"`
	Bio                *string        `db:"bio"`
	AverageRating      *float64       `db:"average_rating"`
	NoShowCount        int            `db:"no_show_count"`
	TripsHosted        int            `db:"trips_hosted"`
	ReliabilityBadge   string         `db:"reliability_badge"`
	VerificationDocURL *string        `db:"verification_doc_url"`
	model.Metadata
}

const (
	AvailabilityTableName  = "student_availabilities"
	AvailabilityEntityName = "student_availability"

	AvailabilityFieldID        = "id"
	AvailabilityFieldStudentID = "student_id"
	AvailabilityFieldDayOfWeek = "day_of_week"
	AvailabilityFieldStartTime = "start_time"
	AvailabilityFieldEndTime   = "end_time"
)

// Availability is one weekly slot; DayOfWeek follows time.Weekday numbering
// (0 = Sunday).
type Availability struct {
	ID        string `db:"id"`
	StudentID string `db:"student_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	model.Metadata
}
