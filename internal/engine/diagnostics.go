package engine

import (
	"sort"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

// Severity grades a diagnostic finding.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Violation is one finding of the schedule conflict scan.
type Violation struct {
	Severity Severity `json:"severity"`
	EventKey string   `json:"event"`
	Role     string   `json:"role,omitempty"`
	PersonID string   `json:"person_id,omitempty"`
	Message  string   `json:"message"`
}

// CheckConflicts scans the period's events for unfilled slots and for
// assignments that violate the hard rules retroactively, e.g. overlaps
// introduced by manual assignment after the fact. It is a read-only query.
func (e *Engine) CheckConflicts(st *roster.State, period roster.Period) ([]Violation, error) {
	var violations []Violation
	personEvents := make(map[string][]roster.Event)

	for _, event := range st.EventsByStart() {
		if !period.IsZero() && !period.Contains(event.Start) {
			continue
		}
		missing, err := e.MissingRoles(st, event)
		if err != nil {
			return nil, err
		}
		for _, role := range missing {
			violations = append(violations, Violation{
				Severity: SeverityWarn,
				EventKey: event.Key(),
				Role:     role,
				Message:  "slot has no assignment",
			})
		}
		for role, personID := range st.Assignments[event.ID] {
			person, ok := st.People[personID]
			if !ok {
				violations = append(violations, Violation{
					Severity: SeverityError,
					EventKey: event.Key(),
					Role:     role,
					PersonID: personID,
					Message:  "assigned person no longer exists",
				})
				continue
			}
			if !roster.IsGenericRole(role) && !person.HasRole(role) {
				violations = append(violations, Violation{
					Severity: SeverityWarn,
					EventKey: event.Key(),
					Role:     role,
					PersonID: personID,
					Message:  "assigned person lacks the role capability",
				})
			}
			if !person.Active {
				violations = append(violations, Violation{
					Severity: SeverityWarn,
					EventKey: event.Key(),
					Role:     role,
					PersonID: personID,
					Message:  "assigned person is inactive",
				})
			}
			personEvents[personID] = append(personEvents[personID], event)
		}
	}

	for personID, events := range personEvents {
		sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
		for i := 0; i < len(events)-1; i++ {
			current, next := events[i], events[i+1]
			_, currentEnd := e.eventInterval(current)
			if currentEnd.Add(e.overlap).After(next.Start) {
				violations = append(violations, Violation{
					Severity: SeverityError,
					EventKey: current.Key(),
					PersonID: personID,
					Message:  "assignment overlaps " + next.Key() + " within the conflict tolerance",
				})
			}
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Severity != violations[j].Severity {
			return violations[i].Severity < violations[j].Severity
		}
		return violations[i].EventKey < violations[j].EventKey
	})
	return violations, nil
}

// PersonStats reports one person's workload within the scanned period.
type PersonStats struct {
	PersonID     string         `json:"person_id"`
	Name         string         `json:"name"`
	Community    string         `json:"community"`
	Total        int            `json:"total"`
	ByRole       map[string]int `json:"by_role"`
	LastAssigned *time.Time     `json:"last_assigned,omitempty"`
}

// Statistics aggregates per-person assignment counts and recency over the
// period, the same figures the scoring engine consumes.
func (e *Engine) Statistics(st *roster.State, period roster.Period) []PersonStats {
	byPerson := make(map[string]*PersonStats)
	for eventID, slots := range st.Assignments {
		event, ok := st.Events[eventID]
		if !ok {
			continue
		}
		if !period.IsZero() && !period.Contains(event.Start) {
			continue
		}
		for role, personID := range slots {
			stats := byPerson[personID]
			if stats == nil {
				stats = &PersonStats{PersonID: personID, ByRole: make(map[string]int)}
				if person, ok := st.People[personID]; ok {
					stats.Name = person.Name
					stats.Community = person.Community
				}
				byPerson[personID] = stats
			}
			stats.Total++
			stats.ByRole[role]++
			if stats.LastAssigned == nil || event.Start.After(*stats.LastAssigned) {
				start := event.Start
				stats.LastAssigned = &start
			}
		}
	}

	out := make([]PersonStats, 0, len(byPerson))
	for _, stats := range byPerson {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if na, nb := roster.FoldName(out[i].Name), roster.FoldName(out[j].Name); na != nb {
			return na < nb
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}
