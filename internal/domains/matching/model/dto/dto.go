package dto

import (
	"tourwise/internal/domains/matching/engine"
)

// MatchResponse exposes a scored candidate. AnonymousID is the only identity
// shown to tourists before a booking is finalized; StudentID is kept for the
// select-guides flow.
type MatchResponse struct {
	StudentID        string   `json:"student_id"`
	AnonymousID      string   `json:"anonymous_id"`
	Score            float64  `json:"score"`
	City             string   `json:"city"`
	Languages        []string `json:"languages"`
	Interests        []string `json:"interests"`
	AverageRating    *float64 `json:"average_rating"`
	ReliabilityBadge string   `json:"reliability_badge"`
	TripsHosted      int      `json:"trips_hosted"`
}

type FindMatchesResponse struct {
	RequestID string          `json:"request_id"`
	Matches   []MatchResponse `json:"matches"`
}

func (r *FindMatchesResponse) FromScored(requestID string, scored []engine.ScoredCandidate, badges map[string]string, trips map[string]int) {
	r.RequestID = requestID

	r.Matches = make([]MatchResponse, len(scored))
	for i, sc := range scored {
		r.Matches[i] = MatchResponse{
			StudentID:        sc.Candidate.ID,
			AnonymousID:      engine.AnonymousID(sc.Candidate.ID),
			Score:            sc.Score,
			City:             sc.Candidate.City,
			Languages:        sc.Candidate.Languages,
			Interests:        sc.Candidate.Interests,
			AverageRating:    sc.Candidate.AverageRating,
			ReliabilityBadge: badges[sc.Candidate.ID],
			TripsHosted:      trips[sc.Candidate.ID],
		}
	}
}
