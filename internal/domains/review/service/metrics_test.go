package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourwise/internal/domains/review/model"
	"tourwise/internal/domains/review/service"
	studentModel "tourwise/internal/domains/student/model"
)

func ratingOf(v float64) *float64 {
	return &v
}

func reviewSet(total, noShows, rating int) []model.Review {
	reviews := make([]model.Review, total)
	for i := range reviews {
		reviews[i] = model.Review{Rating: rating, NoShow: i < noShows}
	}

	return reviews
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name               string
		reviews            []model.Review
		wantAverage        *float64
		wantNoShows        int
		wantHosted         int
		wantTotal          int
		wantCompletionRate float64
		wantBadge          string
	}{
		{
			name:      "no reviews yields bronze and nil average",
			reviews:   nil,
			wantBadge: studentModel.BadgeBronze,
		},
		{
			name:               "gold needs ten reviews at ninety five percent",
			reviews:            reviewSet(10, 0, 5),
			wantAverage:        ratingOf(5.0),
			wantHosted:         10,
			wantTotal:          10,
			wantCompletionRate: 1.0,
			wantBadge:          studentModel.BadgeGold,
		},
		{
			name:               "one no show in twenty stays gold",
			reviews:            reviewSet(20, 1, 4),
			wantAverage:        ratingOf(4.0),
			wantNoShows:        1,
			wantHosted:         19,
			wantTotal:          20,
			wantCompletionRate: 0.95,
			wantBadge:          studentModel.BadgeGold,
		},
		{
			name:               "five clean reviews earn silver not gold",
			reviews:            reviewSet(5, 0, 4),
			wantAverage:        ratingOf(4.0),
			wantHosted:         5,
			wantTotal:          5,
			wantCompletionRate: 1.0,
			wantBadge:          studentModel.BadgeSilver,
		},
		{
			name:               "one no show in ten drops to silver",
			reviews:            reviewSet(10, 1, 3),
			wantAverage:        ratingOf(3.0),
			wantNoShows:        1,
			wantHosted:         9,
			wantTotal:          10,
			wantCompletionRate: 0.9,
			wantBadge:          studentModel.BadgeSilver,
		},
		{
			name:               "low completion rate falls back to bronze",
			reviews:            reviewSet(10, 2, 5),
			wantAverage:        ratingOf(5.0),
			wantNoShows:        2,
			wantHosted:         8,
			wantTotal:          10,
			wantCompletionRate: 0.8,
			wantBadge:          studentModel.BadgeBronze,
		},
		{
			name:               "too few reviews stay bronze even when perfect",
			reviews:            reviewSet(4, 0, 5),
			wantAverage:        ratingOf(5.0),
			wantHosted:         4,
			wantTotal:          4,
			wantCompletionRate: 1.0,
			wantBadge:          studentModel.BadgeBronze,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ComputeMetrics(tt.reviews)

			if tt.wantAverage == nil {
				assert.Nil(t, got.AverageRating)
			} else {
				assert.InDelta(t, *tt.wantAverage, *got.AverageRating, 0.001)
			}

			assert.Equal(t, tt.wantNoShows, got.NoShowCount)
			assert.Equal(t, tt.wantHosted, got.TripsHosted)
			assert.Equal(t, tt.wantTotal, got.TotalReviews)
			assert.InDelta(t, tt.wantCompletionRate, got.CompletionRate, 0.001)
			assert.Equal(t, tt.wantBadge, got.ReliabilityBadge)
		})
	}
}

func TestComputeMetrics_Idempotent(t *testing.T) {
	reviews := reviewSet(12, 1, 4)

	first := service.ComputeMetrics(reviews)
	second := service.ComputeMetrics(reviews)

	assert.Equal(t, first, second)
}

func TestComputeMetrics_MixedRatings(t *testing.T) {
	reviews := []model.Review{
		{Rating: 5},
		{Rating: 4},
		{Rating: 2, NoShow: true},
	}

	got := service.ComputeMetrics(reviews)

	assert.InDelta(t, 11.0/3.0, *got.AverageRating, 0.001)
	assert.Equal(t, 1, got.NoShowCount)
	assert.Equal(t, 2, got.TripsHosted)
	assert.Equal(t, 3, got.TotalReviews)
}
