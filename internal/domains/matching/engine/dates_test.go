package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tourwise/internal/domains/matching/engine"
)

func TestParseDateSelector(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "bare date string",
			raw:       `"2026-03-02"`,
			wantValid: true,
			wantStart: "2026-03-02",
			wantEnd:   "2026-03-02",
		},
		{
			name:      "single date object",
			raw:       `{"date": "2026-03-02"}`,
			wantValid: true,
			wantStart: "2026-03-02",
			wantEnd:   "2026-03-02",
		},
		{
			name:      "start end range",
			raw:       `{"start": "2026-03-02", "end": "2026-03-06"}`,
			wantValid: true,
			wantStart: "2026-03-02",
			wantEnd:   "2026-03-06",
		},
		{
			name:      "empty payload",
			raw:       "",
			wantValid: false,
		},
		{
			name:      "malformed json",
			raw:       `{"start": `,
			wantValid: false,
		},
		{
			name:      "unparsable bare string",
			raw:       `"next tuesday"`,
			wantValid: false,
		},
		{
			name:      "unparsable date field",
			raw:       `{"date": "03/02/2026"}`,
			wantValid: false,
		},
		{
			name:      "range missing end",
			raw:       `{"start": "2026-03-02"}`,
			wantValid: false,
		},
		{
			name:      "end before start",
			raw:       `{"start": "2026-03-06", "end": "2026-03-02"}`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ParseDateSelector(tt.raw)

			assert.Equal(t, tt.wantValid, got.Valid())

			if tt.wantValid {
				assert.Equal(t, tt.wantStart, got.Start().Format("2006-01-02"))
				assert.Equal(t, tt.wantEnd, got.End().Format("2006-01-02"))
			}
		})
	}
}

func TestDateSelector_Weekdays(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		selector engine.DateSelector
		want     []time.Weekday
	}{
		{
			name:     "single date",
			selector: engine.SingleDate(monday),
			want:     []time.Weekday{time.Monday},
		},
		{
			name:     "short range",
			selector: engine.DateRange(monday, monday.AddDate(0, 0, 2)),
			want:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday},
		},
		{
			name:     "long range caps at seven distinct days",
			selector: engine.DateRange(monday, monday.AddDate(0, 1, 0)),
			want: []time.Weekday{
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
				time.Friday, time.Saturday, time.Sunday,
			},
		},
		{
			name:     "invalid selector yields nothing",
			selector: engine.DateSelector{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.selector.Weekdays())
		})
	}
}

func TestDateRange_RejectsReversedBounds(t *testing.T) {
	start := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, engine.DateRange(start, end).Valid())
}
