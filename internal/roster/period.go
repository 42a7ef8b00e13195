package roster

import (
	"fmt"
	"time"
)

// Period is an inclusive date range used to scope schedule operations.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant's date falls inside the period.
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(start) && !day.After(end)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// ParsePeriod builds a Period from either a month expression (YYYY-MM) or an
// explicit from/to pair of ISO dates. Exactly one of the two forms must be
// supplied; an empty call returns the zero Period.
func ParsePeriod(month, from, to string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	if month != "" {
		if from != "" || to != "" {
			return Period{}, fmt.Errorf("%w: use either a month or a from/to pair", ErrInvalidPeriod)
		}
		start, err := time.ParseInLocation("2006-01", month, loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidPeriod)
		}
		end := start.AddDate(0, 1, -1)
		return Period{Start: start, End: end}, nil
	}
	if from == "" && to == "" {
		return Period{}, nil
	}
	if from == "" || to == "" {
		return Period{}, fmt.Errorf("%w: from and to must be supplied together", ErrInvalidPeriod)
	}
	start, err := time.ParseInLocation("2006-01-02", from, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidPeriod)
	}
	end, err := time.ParseInLocation("2006-01-02", to, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidPeriod)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: end before start", ErrInvalidPeriod)
	}
	return Period{Start: start, End: end}, nil
}

// WindowAround returns the fairness lookback window ending at the reference
// date, used when an operation omits its period.
func WindowAround(ref time.Time, windowDays int) Period {
	return Period{Start: ref.AddDate(0, 0, -windowDays), End: ref.AddDate(0, 0, windowDays)}
}
