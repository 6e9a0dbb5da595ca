package model

import (
	"time"
	"tourwise/shared/model"

	"github.com/lib/pq"
)

const (
	RequestTableName  = "tourist_requests"
	RequestEntityName = "tourist_request"

	RequestFieldID                   = "id"
	RequestFieldTouristID            = "tourist_id"
	RequestFieldContactEmail         = "contact_email"
	RequestFieldContactPhone         = "contact_phone"
	RequestFieldCity                 = "city"
	RequestFieldTripDates            = "trip_dates"
	RequestFieldGroupSize            = "group_size"
	RequestFieldGroupType            = "group_type"
	RequestFieldServiceType          = "service_type"
	RequestFieldPreferredNationality = "preferred_nationality"
	RequestFieldPreferredLanguages   = "preferred_languages"
	RequestFieldPreferredGender      = "preferred_gender"
	RequestFieldInterests            = "interests"
	RequestFieldBudget               = "budget"
	RequestFieldStatus               = "status"
	RequestFieldExpiresAt            = "expires_at"
	RequestFieldAssignedStudentID    = "assigned_student_id"
)

const (
	RequestStatusPending   = "PENDING"
	RequestStatusMatched   = "MATCHED"
	RequestStatusAccepted  = "ACCEPTED"
	RequestStatusExpired   = "EXPIRED"
	RequestStatusCancelled = "CANCELLED"
)

const (
	ServiceTypeItineraryHelp    = "itinerary_help"
	ServiceTypeGuidedExperience = "guided_experience"
)

// TouristRequest is a trip request. TripDates holds the raw date payload
// (single date or start/end range); parsing is deferred to the matching
// engine, which fails closed on junk.
type TouristRequest struct {
	ID                   string         `db:"id"`
	TouristID            string         `db:"tourist_id"`
	ContactEmail         string         `db:"contact_email"`
	ContactPhone         *string        `db:"contact_phone"`
	City                 string         `db:"city"`
	TripDates            string         `db:"trip_dates"`
	GroupSize            int            `db:"group_size"`
	GroupType            string         `db:"group_type"`
	ServiceType          string         `db:"service_type"`
	PreferredNationality *string        `db:"preferred_nationality"`
	PreferredLanguages   pq.StringArray `db:"preferred_languages"`
	PreferredGender      string         `db:"preferred_gender"`
	Interests            pq.StringArray `db:"interests"`
	Budget               *float64       `db:"budget"`
	Status               string         `db:"status"`
	ExpiresAt            time.Time      `db:"expires_at"`
	AssignedStudentID    *string        `db:"assigned_student_id"`
	model.Metadata
}

// Expired reports whether a still-PENDING request has outlived its expiry
// timestamp.
func (r *TouristRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

const (
	SelectionTableName  = "request_selections"
	SelectionEntityName = "request_selection"

	SelectionFieldID         = "id"
	SelectionFieldRequestID  = "request_id"
	SelectionFieldStudentID  = "student_id"
	SelectionFieldStatus     = "status"
	SelectionFieldAcceptedAt = "accepted_at"
)

const (
	SelectionStatusPending  = "pending"
	SelectionStatusAccepted = "accepted"
	SelectionStatusRejected = "rejected"
)

// RequestSelection links a shortlisted guide to a request. At most one
// selection per request may ever be accepted, and that selection's student
// must equal the request's assigned student.
type RequestSelection struct {
	ID         string     `db:"id"`
	RequestID  string     `db:"request_id"`
	StudentID  string     `db:"student_id"`
	Status     string     `db:"status"`
	AcceptedAt *time.Time `db:"accepted_at"`
	model.Metadata
}
