package engine

import (
	"github.com/example/liturgy-roster/internal/roster"
)

// Eligibility applies the hard filters for assigning person to (event,
// role). It is a pure query: normal ineligibility is reported through the
// reason, never an error. Filters run in a fixed order so the reported
// reason is deterministic for a given state.
func (e *Engine) Eligibility(st *roster.State, idx roster.AssignmentIndex, person roster.Person, event roster.Event, role string) (bool, Reason) {
	if !roster.IsGenericRole(role) && !person.HasRole(role) {
		return false, ReasonCapability
	}
	if !person.Active {
		return false, ReasonInactive
	}
	if !event.InPool(person.ID) {
		return false, ReasonPool
	}
	start, end := e.eventInterval(event)
	for _, block := range st.Availability[person.ID] {
		if block.Overlaps(start, end) {
			return false, ReasonAvailability
		}
	}
	if e.hasConflict(st, idx, person.ID, event) {
		return false, ReasonConflict
	}
	for assignedRole, personID := range st.Assignments[event.ID] {
		if personID == person.ID && assignedRole != role {
			return false, ReasonDoubleBooked
		}
	}
	return true, ""
}

// hasConflict reports whether the person already serves another event whose
// interval falls within the overlap tolerance of this one. The tolerance is
// applied symmetrically before and after the event interval.
func (e *Engine) hasConflict(st *roster.State, idx roster.AssignmentIndex, personID string, event roster.Event) bool {
	start, end := e.eventInterval(event)
	lower := start.Add(-e.overlap)
	upper := end.Add(e.overlap)
	for _, record := range idx[personID] {
		if record.EventID == event.ID {
			continue
		}
		other, ok := st.Events[record.EventID]
		if !ok {
			continue
		}
		otherStart, otherEnd := e.eventInterval(other)
		if otherStart.Before(upper) && otherEnd.After(lower) {
			return true
		}
	}
	return false
}

// eligibleCandidates returns every person passing all hard filters for the
// slot, ordered by id for deterministic downstream iteration. The candidate
// set honours the event pool restriction.
func (e *Engine) eligibleCandidates(st *roster.State, idx roster.AssignmentIndex, event roster.Event, role string) []roster.Person {
	ids := make([]string, 0, len(st.People))
	if len(event.Pool) > 0 {
		ids = append(ids, event.Pool...)
	} else {
		for id := range st.People {
			ids = append(ids, id)
		}
	}
	sortStrings(ids)

	out := make([]roster.Person, 0, len(ids))
	for _, id := range ids {
		person, ok := st.People[id]
		if !ok {
			continue
		}
		if ok, _ := e.Eligibility(st, idx, person, event, role); ok {
			out = append(out, person)
		}
	}
	return out
}
