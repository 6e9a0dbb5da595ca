// Package engine ranks guide candidates for a trip request. It is pure
// read-and-rank logic: callers fetch the candidate set, the engine filters and
// scores it.
package engine

import (
	"math"
	"slices"
	"strings"
	"time"
)

const (
	availabilityPoints = 40.0
	ratingMultiplier   = 4.0
	reliabilityPoints  = 20.0
	reliabilityPenalty = 5.0
	interestPoints     = 20.0

	DefaultMaxResults    = 4
	DefaultUnratedRating = 3.0

	GenderNoPreference = "no_preference"
)

// Candidate is a guide as seen by the matcher. AvailableDays holds the
// weekdays covered by at least one weekly availability slot.
type Candidate struct {
	ID            string
	City          string
	Approved      bool
	Nationality   string
	Gender        string
	Languages     []string
	Interests     []string
	AverageRating *float64
	NoShowCount   int
	AvailableDays map[time.Weekday]bool
}

// Criteria carries the hard filters and scoring inputs of a trip request.
// Empty optional fields mean "no preference".
type Criteria struct {
	City        string
	Nationality string
	Languages   []string
	Gender      string
	Interests   []string
	Dates       DateSelector
}

type Options struct {
	MaxResults    int
	DefaultRating float64
}

type ScoredCandidate struct {
	Candidate Candidate
	Score     float64
}

// FindMatches filters candidates by the criteria's hard constraints, scores
// the survivors out of 100 and returns the top candidates ordered by score
// descending. Ties break on candidate ID ascending so results are stable.
func FindMatches(criteria Criteria, candidates []Candidate, opts Options) []ScoredCandidate {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	scored := []ScoredCandidate{}

	for _, candidate := range candidates {
		if !Matches(criteria, candidate) {
			continue
		}

		scored = append(scored, ScoredCandidate{
			Candidate: candidate,
			Score:     Score(criteria, candidate, opts),
		})
	}

	slices.SortFunc(scored, func(a, b ScoredCandidate) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Candidate.ID, b.Candidate.ID)
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	return scored
}

// Matches applies the hard filters: exact city, approval, and the optional
// nationality, language overlap and gender preferences.
func Matches(criteria Criteria, candidate Candidate) bool {
	if candidate.City != criteria.City {
		return false
	}

	if !candidate.Approved {
		return false
	}

	if criteria.Nationality != "" && candidate.Nationality != criteria.Nationality {
		return false
	}

	if len(criteria.Languages) > 0 && overlap(criteria.Languages, candidate.Languages) == 0 {
		return false
	}

	if criteria.Gender != "" && criteria.Gender != GenderNoPreference && candidate.Gender != criteria.Gender {
		return false
	}

	return true
}

// Score computes the additive 0..100 score for a candidate that passed the
// hard filters, rounded to one decimal place.
func Score(criteria Criteria, candidate Candidate, opts Options) float64 {
	defaultRating := opts.DefaultRating
	if defaultRating == 0 {
		defaultRating = DefaultUnratedRating
	}

	score := 0.0

	if coversRequestedDays(criteria.Dates, candidate.AvailableDays) {
		score += availabilityPoints
	}

	rating := defaultRating
	if candidate.AverageRating != nil {
		rating = *candidate.AverageRating
	}

	score += rating * ratingMultiplier

	reliability := reliabilityPoints - reliabilityPenalty*float64(candidate.NoShowCount)
	if reliability < 0 {
		reliability = 0
	}

	score += reliability

	if len(criteria.Interests) > 0 {
		matched := overlap(criteria.Interests, candidate.Interests)
		score += float64(matched) / float64(len(criteria.Interests)) * interestPoints
	}

	return math.Round(score*10) / 10
}

// coversRequestedDays reports whether the candidate has a slot for the
// day-of-week of every requested date. An invalid selector or an empty slot
// set never matches.
func coversRequestedDays(dates DateSelector, available map[time.Weekday]bool) bool {
	if !dates.Valid() || len(available) == 0 {
		return false
	}

	for _, day := range dates.Weekdays() {
		if !available[day] {
			return false
		}
	}

	return true
}

func overlap(want, have []string) int {
	matched := 0

	for _, w := range want {
		if slices.Contains(have, w) {
			matched++
		}
	}

	return matched
}
