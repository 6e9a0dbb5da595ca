package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tourwise/internal/domains/matching/engine"
)

func ratingOf(v float64) *float64 {
	return &v
}

func weekdays(days ...time.Weekday) map[time.Weekday]bool {
	m := map[time.Weekday]bool{}
	for _, d := range days {
		m[d] = true
	}

	return m
}

func TestMatches(t *testing.T) {
	criteria := engine.Criteria{
		City:        "Yogyakarta",
		Nationality: "ID",
		Languages:   []string{"en", "id"},
		Gender:      "female",
	}

	base := engine.Candidate{
		ID:          "guide-1",
		City:        "Yogyakarta",
		Approved:    true,
		Nationality: "ID",
		Gender:      "female",
		Languages:   []string{"en"},
	}

	tests := []struct {
		name      string
		criteria  engine.Criteria
		candidate func() engine.Candidate
		want      bool
	}{
		{
			name:      "all filters pass",
			criteria:  criteria,
			candidate: func() engine.Candidate { return base },
			want:      true,
		},
		{
			name:     "different city",
			criteria: criteria,
			candidate: func() engine.Candidate {
				c := base
				c.City = "Bandung"
				return c
			},
			want: false,
		},
		{
			name:     "not approved",
			criteria: criteria,
			candidate: func() engine.Candidate {
				c := base
				c.Approved = false
				return c
			},
			want: false,
		},
		{
			name:     "nationality mismatch",
			criteria: criteria,
			candidate: func() engine.Candidate {
				c := base
				c.Nationality = "SG"
				return c
			},
			want: false,
		},
		{
			name:     "no language overlap",
			criteria: criteria,
			candidate: func() engine.Candidate {
				c := base
				c.Languages = []string{"fr"}
				return c
			},
			want: false,
		},
		{
			name:     "gender mismatch",
			criteria: criteria,
			candidate: func() engine.Candidate {
				c := base
				c.Gender = "male"
				return c
			},
			want: false,
		},
		{
			name: "no_preference gender passes any candidate",
			criteria: engine.Criteria{
				City:   "Yogyakarta",
				Gender: engine.GenderNoPreference,
			},
			candidate: func() engine.Candidate {
				c := base
				c.Gender = "male"
				return c
			},
			want: true,
		},
		{
			name: "empty optional filters pass",
			criteria: engine.Criteria{
				City: "Yogyakarta",
			},
			candidate: func() engine.Candidate {
				c := base
				c.Nationality = "SG"
				c.Languages = nil
				return c
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Matches(tt.criteria, tt.candidate()))
		})
	}
}

func TestScore(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	criteria := engine.Criteria{
		City:      "Yogyakarta",
		Interests: []string{"food", "history"},
		Dates:     engine.SingleDate(monday),
	}

	tests := []struct {
		name      string
		criteria  engine.Criteria
		candidate engine.Candidate
		want      float64
	}{
		{
			name:     "available rated reliable guide with half interests",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: ratingOf(4.5),
				NoShowCount:   0,
				Interests:     []string{"food"},
				AvailableDays: weekdays(time.Monday),
			},
			// 40 + 4.5*4 + 20 + 10
			want: 88.0,
		},
		{
			name:     "two no-shows cost ten reliability points",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: ratingOf(4.5),
				NoShowCount:   2,
				Interests:     []string{"food"},
				AvailableDays: weekdays(time.Monday),
			},
			want: 78.0,
		},
		{
			name:     "reliability never goes negative",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: ratingOf(5.0),
				NoShowCount:   9,
				Interests:     []string{"food", "history"},
				AvailableDays: weekdays(time.Monday),
			},
			// 40 + 20 + 0 + 20
			want: 80.0,
		},
		{
			name:     "unrated guide uses the default rating",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: nil,
				Interests:     nil,
				AvailableDays: weekdays(time.Monday),
			},
			// 40 + 3*4 + 20 + 0
			want: 72.0,
		},
		{
			name:     "unavailable guide loses the availability points",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: ratingOf(4.0),
				Interests:     []string{"food", "history"},
				AvailableDays: weekdays(time.Tuesday),
			},
			// 0 + 16 + 20 + 20
			want: 56.0,
		},
		{
			name: "no requested interests skips the interest component",
			criteria: engine.Criteria{
				City:  "Yogyakarta",
				Dates: engine.SingleDate(monday),
			},
			candidate: engine.Candidate{
				AverageRating: ratingOf(5.0),
				Interests:     []string{"food"},
				AvailableDays: weekdays(time.Monday),
			},
			// 40 + 20 + 20
			want: 80.0,
		},
		{
			name:     "perfect score",
			criteria: criteria,
			candidate: engine.Candidate{
				AverageRating: ratingOf(5.0),
				Interests:     []string{"food", "history"},
				AvailableDays: weekdays(time.Monday),
			},
			want: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Score(tt.criteria, tt.candidate, engine.Options{})
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScore_RoundsToOneDecimal(t *testing.T) {
	criteria := engine.Criteria{
		City:      "Yogyakarta",
		Interests: []string{"a", "b", "c"},
	}
	candidate := engine.Candidate{
		AverageRating: ratingOf(4.0),
		Interests:     []string{"a"},
	}

	// 16 + 20 + 20/3 = 42.666... rounds to 42.7.
	got := engine.Score(criteria, candidate, engine.Options{})
	assert.InDelta(t, 42.7, got, 0.0001)
}

func TestFindMatches(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	criteria := engine.Criteria{
		City:  "Yogyakarta",
		Dates: engine.SingleDate(monday),
	}

	guide := func(id string, rating float64, noShows int) engine.Candidate {
		return engine.Candidate{
			ID:            id,
			City:          "Yogyakarta",
			Approved:      true,
			AverageRating: ratingOf(rating),
			NoShowCount:   noShows,
			AvailableDays: weekdays(time.Monday),
		}
	}

	t.Run("filters out non matching candidates", func(t *testing.T) {
		other := guide("guide-2", 5.0, 0)
		other.City = "Bandung"

		got := engine.FindMatches(criteria, []engine.Candidate{guide("guide-1", 4.0, 0), other}, engine.Options{})

		assert.Len(t, got, 1)
		assert.Equal(t, "guide-1", got[0].Candidate.ID)
	})

	t.Run("orders by score descending", func(t *testing.T) {
		got := engine.FindMatches(criteria, []engine.Candidate{
			guide("guide-low", 3.0, 1),
			guide("guide-high", 5.0, 0),
		}, engine.Options{})

		assert.Len(t, got, 2)
		assert.Equal(t, "guide-high", got[0].Candidate.ID)
		assert.Equal(t, "guide-low", got[1].Candidate.ID)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("ties break on candidate id ascending", func(t *testing.T) {
		got := engine.FindMatches(criteria, []engine.Candidate{
			guide("guide-b", 4.0, 0),
			guide("guide-a", 4.0, 0),
		}, engine.Options{})

		assert.Len(t, got, 2)
		assert.Equal(t, "guide-a", got[0].Candidate.ID)
		assert.Equal(t, "guide-b", got[1].Candidate.ID)
	})

	t.Run("caps results at the default maximum", func(t *testing.T) {
		candidates := []engine.Candidate{
			guide("guide-1", 5.0, 0),
			guide("guide-2", 4.8, 0),
			guide("guide-3", 4.5, 0),
			guide("guide-4", 4.2, 0),
			guide("guide-5", 4.0, 0),
			guide("guide-6", 3.5, 0),
		}

		got := engine.FindMatches(criteria, candidates, engine.Options{})

		assert.Len(t, got, engine.DefaultMaxResults)
		assert.Equal(t, "guide-1", got[0].Candidate.ID)
	})

	t.Run("honors a custom max results", func(t *testing.T) {
		candidates := []engine.Candidate{
			guide("guide-1", 5.0, 0),
			guide("guide-2", 4.0, 0),
			guide("guide-3", 3.0, 0),
		}

		got := engine.FindMatches(criteria, candidates, engine.Options{MaxResults: 2})

		assert.Len(t, got, 2)
	})

	t.Run("empty candidate set yields empty result", func(t *testing.T) {
		got := engine.FindMatches(criteria, nil, engine.Options{})

		assert.Empty(t, got)
	})
}
