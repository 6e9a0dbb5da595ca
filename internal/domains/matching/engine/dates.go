package engine

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

const maxRangeDays = 366

// DateSelector is the parsed form of a request's date payload: either a single
// date or an inclusive start..end range. The zero value is invalid and matches
// no availability.
type DateSelector struct {
	start time.Time
	end   time.Time
	valid bool
}

func SingleDate(date time.Time) DateSelector {
	return DateSelector{start: date, end: date, valid: true}
}

func DateRange(start, end time.Time) DateSelector {
	if end.Before(start) {
		return DateSelector{}
	}

	return DateSelector{start: start, end: end, valid: true}
}

func (d DateSelector) Valid() bool {
	return d.valid
}

func (d DateSelector) Start() time.Time {
	return d.start
}

func (d DateSelector) End() time.Time {
	return d.end
}

// Weekdays returns the distinct days of week covered by the selection, empty
// when the selector is invalid.
func (d DateSelector) Weekdays() []time.Weekday {
	if !d.valid {
		return nil
	}

	seen := map[time.Weekday]bool{}
	days := []time.Weekday{}

	for cur, i := d.start, 0; !cur.After(d.end) && i < maxRangeDays; cur, i = cur.AddDate(0, 0, 1), i+1 {
		if len(days) == 7 {
			break
		}

		if !seen[cur.Weekday()] {
			seen[cur.Weekday()] = true
			days = append(days, cur.Weekday())
		}
	}

	return days
}

type datePayload struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseDateSelector decodes the loosely typed date payload stored on a trip
// request: a bare "YYYY-MM-DD" string, {"date": ...} or {"start": ..., "end":
// ...}. Anything unparsable yields an invalid selector so availability scoring
// degrades to zero instead of failing the whole match.
func ParseDateSelector(raw string) DateSelector {
	if raw == "" {
		return DateSelector{}
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if date, err := time.Parse(dateLayout, single); err == nil {
			return SingleDate(date)
		}

		return DateSelector{}
	}

	var payload datePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return DateSelector{}
	}

	if payload.Date != "" {
		date, err := time.Parse(dateLayout, payload.Date)
		if err != nil {
			return DateSelector{}
		}

		return SingleDate(date)
	}

	if payload.Start == "" || payload.End == "" {
		return DateSelector{}
	}

	start, err := time.Parse(dateLayout, payload.Start)
	if err != nil {
		return DateSelector{}
	}

	end, err := time.Parse(dateLayout, payload.End)
	if err != nil {
		return DateSelector{}
	}

	return DateRange(start, end)
}
