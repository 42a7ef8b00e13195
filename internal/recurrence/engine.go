// Package recurrence expands recurrence rules into event templates. The
// expansion is a pure function over a bounded range; materializing the
// templates into the store is the application layer's job and never happens
// implicitly during scoring or recalculation.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily generates one occurrence per day, optionally filtered
	// by weekdays.
	FrequencyDaily
	// FrequencyWeekly generates occurrences on the selected weekdays.
	FrequencyWeekly
	// FrequencyMonthly generates one occurrence per month on the base
	// start's day of month.
	FrequencyMonthly
)

// Rule describes a parsed recurrence configuration.
type Rule struct {
	Frequency Frequency
	Weekdays  []time.Weekday
}

// Template is one generated event start/end pair awaiting materialization.
type Template struct {
	Start time.Time
	End   time.Time
}

// ErrInvalidRule indicates the rule expression cannot be parsed.
var ErrInvalidRule = errors.New("recurrence: invalid rule")

// ErrInvalidWindow indicates the generation window is unbounded or inverted.
var ErrInvalidWindow = errors.New("recurrence: generation window must be bounded")

// ErrInvalidDuration indicates the base duration is not positive.
var ErrInvalidDuration = errors.New("recurrence: duration must be positive")

var weekdayTokens = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

// ParseRule parses the compact rule grammar:
//
//	DAILY
//	DAILY:MON,WED,FRI
//	WEEKLY:SUN
//	MONTHLY
//
// Weekly rules require at least one weekday.
func ParseRule(expr string) (Rule, error) {
	head, tail, hasTail := strings.Cut(strings.ToUpper(strings.TrimSpace(expr)), ":")
	rule := Rule{}
	switch head {
	case "DAILY":
		rule.Frequency = FrequencyDaily
	case "WEEKLY":
		rule.Frequency = FrequencyWeekly
	case "MONTHLY":
		rule.Frequency = FrequencyMonthly
	default:
		return Rule{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, expr)
	}
	if hasTail {
		for _, token := range strings.Split(tail, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			day, ok := weekdayTokens[token]
			if !ok {
				return Rule{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRule, token)
			}
			rule.Weekdays = append(rule.Weekdays, day)
		}
	}
	if rule.Frequency == FrequencyWeekly && len(rule.Weekdays) == 0 {
		return Rule{}, fmt.Errorf("%w: weekly rules need at least one weekday", ErrInvalidRule)
	}
	if rule.Frequency == FrequencyMonthly && len(rule.Weekdays) > 0 {
		return Rule{}, fmt.Errorf("%w: monthly rules take no weekdays", ErrInvalidRule)
	}
	return rule, nil
}

// String renders the rule back into the grammar accepted by ParseRule.
func (r Rule) String() string {
	var head string
	switch r.Frequency {
	case FrequencyDaily:
		head = "DAILY"
	case FrequencyWeekly:
		head = "WEEKLY"
	case FrequencyMonthly:
		head = "MONTHLY"
	default:
		return "UNSPECIFIED"
	}
	if len(r.Weekdays) == 0 {
		return head
	}
	tokens := make([]string, 0, len(r.Weekdays))
	for _, day := range r.Weekdays {
		tokens = append(tokens, strings.ToUpper(day.String()[:3]))
	}
	return head + ":" + strings.Join(tokens, ",")
}

// Generate expands the rule into templates whose starts fall inside
// [rangeStart, rangeEnd], carrying the base start's time of day and
// duration. The range must be bounded and the duration positive.
func Generate(rule Rule, baseStart time.Time, duration time.Duration, rangeStart, rangeEnd time.Time) ([]Template, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if rangeStart.IsZero() || rangeEnd.IsZero() || rangeEnd.Before(rangeStart) {
		return nil, ErrInvalidWindow
	}
	if rule.Frequency == FrequencyUnspecified {
		return nil, fmt.Errorf("%w: frequency not set", ErrInvalidRule)
	}

	lower := rangeStart
	if baseStart.After(lower) {
		lower = baseStart
	}
	if lower.After(rangeEnd) {
		return nil, nil
	}

	weekdaySet := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdaySet[day] = struct{}{}
	}

	loc := baseStart.Location()
	current := combineDateTime(lower, baseStart, loc)
	if current.Before(lower) {
		current = current.AddDate(0, 0, 1)
	}

	var templates []Template
	for !current.After(rangeEnd) {
		if includes(rule, weekdaySet, baseStart, current) {
			templates = append(templates, Template{Start: current, End: current.Add(duration)})
		}
		current = current.AddDate(0, 0, 1)
	}
	return templates, nil
}

func includes(rule Rule, weekdaySet map[time.Weekday]struct{}, baseStart, candidate time.Time) bool {
	switch rule.Frequency {
	case FrequencyDaily:
		if len(weekdaySet) == 0 {
			return true
		}
		_, ok := weekdaySet[candidate.Weekday()]
		return ok
	case FrequencyWeekly:
		_, ok := weekdaySet[candidate.Weekday()]
		return ok
	case FrequencyMonthly:
		return candidate.Day() == monthDay(baseStart, candidate)
	default:
		return false
	}
}

// monthDay clamps the base day of month to the candidate month's length, so
// a rule based on the 31st still fires in shorter months.
func monthDay(baseStart, candidate time.Time) int {
	day := baseStart.Day()
	last := lastDayOfMonth(candidate)
	if day > last {
		return last
	}
	return day
}

func lastDayOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

func combineDateTime(dateSource, template time.Time, loc *time.Location) time.Time {
	y, m, d := dateSource.In(loc).Date()
	tpl := template.In(loc)
	return time.Date(y, m, d, tpl.Hour(), tpl.Minute(), tpl.Second(), tpl.Nanosecond(), loc)
}
