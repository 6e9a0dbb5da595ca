package service

import (
	"tourwise/internal/domains/review/model"
	studentModel "tourwise/internal/domains/student/model"
)

const (
	goldCompletionRate   = 0.95
	goldMinReviews       = 10
	silverCompletionRate = 0.90
	silverMinReviews     = 5
)

type Metrics struct {
	AverageRating    *float64
	NoShowCount      int
	TripsHosted      int
	TotalReviews     int
	CompletionRate   float64
	ReliabilityBadge string
}

// ComputeMetrics derives a guide's aggregates from their full review set. The
// function is deterministic over the same input, which is what makes
// recomputation idempotent.
func ComputeMetrics(reviews []model.Review) Metrics {
	total := len(reviews)
	if total == 0 {
		return Metrics{ReliabilityBadge: studentModel.BadgeBronze}
	}

	sum := 0
	noShows := 0

	for _, review := range reviews {
		sum += review.Rating

		if review.NoShow {
			noShows++
		}
	}

	average := float64(sum) / float64(total)
	hosted := total - noShows
	completionRate := float64(hosted) / float64(total)

	badge := studentModel.BadgeBronze

	switch {
	case completionRate >= goldCompletionRate && total >= goldMinReviews:
		badge = studentModel.BadgeGold
	case completionRate >= silverCompletionRate && total >= silverMinReviews:
		badge = studentModel.BadgeSilver
	}

	return Metrics{
		AverageRating:    &average,
		NoShowCount:      noShows,
		TripsHosted:      hosted,
		TotalReviews:     total,
		CompletionRate:   completionRate,
		ReliabilityBadge: badge,
	}
}
