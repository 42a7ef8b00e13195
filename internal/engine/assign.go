package engine

import (
	"github.com/example/liturgy-roster/internal/roster"
)

// SlotRef names one (event, role) slot.
type SlotRef struct {
	EventID  string
	EventKey string
	Role     string
}

// RecalculateResult summarizes a recalculation pass.
type RecalculateResult struct {
	Filled  int
	Skipped []SlotRef
}

// Recalculate fills every missing slot of the period's events, in
// deterministic event-then-role order. Statistics are re-derived after each
// commit, so earlier picks inside the pass lower their person's odds for
// later slots. Slots with no eligible candidate are skipped and reported,
// never failed. Already-filled slots are left untouched.
func (e *Engine) Recalculate(st *roster.State, period roster.Period, seed *int64) (RecalculateResult, error) {
	idx := st.BuildAssignmentIndex()
	tie := NewTieBreaker(personIDs(st), seed)

	var result RecalculateResult
	for _, event := range st.EventsByStart() {
		if !period.IsZero() && !period.Contains(event.Start) {
			continue
		}
		missing, err := e.MissingRoles(st, event)
		if err != nil {
			return RecalculateResult{}, err
		}
		for _, role := range missing {
			ranked := e.rankCandidates(st, idx, event, role, tie)
			if len(ranked) == 0 {
				result.Skipped = append(result.Skipped, SlotRef{EventID: event.ID, EventKey: event.Key(), Role: role})
				continue
			}
			chosen := ranked[0].Person
			commit(st, event.ID, role, chosen.ID)
			idx.Add(chosen.ID, roster.ServiceRecord{Start: event.Start, Role: role, EventID: event.ID})
			result.Filled++
		}
	}
	return result, nil
}

// Reset removes every assignment whose event starts inside the period; a
// zero period clears all assignments. Events, people, and blocks are not
// touched.
func (e *Engine) Reset(st *roster.State, period roster.Period) int {
	removed := 0
	for eventID, slots := range st.Assignments {
		event, ok := st.Events[eventID]
		if ok && !period.IsZero() && !period.Contains(event.Start) {
			continue
		}
		removed += len(slots)
		delete(st.Assignments, eventID)
	}
	return removed
}

// Assign is the manual override: it replaces whatever occupies the slot with
// the given person, provided every hard filter passes. The failing reason is
// reported on rejection.
func (e *Engine) Assign(st *roster.State, event roster.Event, role string, person roster.Person) error {
	idx := st.BuildAssignmentIndex()
	if ok, reason := e.Eligibility(st, idx, person, event, role); !ok {
		return &EligibilityError{PersonID: person.ID, EventKey: event.Key(), Role: role, Reason: reason}
	}
	commit(st, event.ID, role, person.ID)
	return nil
}

// Clear empties one slot.
func (e *Engine) Clear(st *roster.State, event roster.Event, role string) error {
	slots := st.Assignments[event.ID]
	if _, ok := slots[role]; !ok {
		return ErrSlotNotFound
	}
	delete(slots, role)
	if len(slots) == 0 {
		delete(st.Assignments, event.ID)
	}
	return nil
}

// Swap exchanges the people of two assigned slots. Both sides are validated
// against the post-swap state before either is written; on any failure the
// state is left exactly as it was (the caller's transaction also guards
// this).
func (e *Engine) Swap(st *roster.State, eventA roster.Event, roleA string, eventB roster.Event, roleB string) error {
	personAID, okA := st.Assignments[eventA.ID][roleA]
	personBID, okB := st.Assignments[eventB.ID][roleB]
	if !okA || !okB {
		return ErrSlotNotFound
	}
	personA, okA := st.People[personAID]
	personB, okB := st.People[personBID]
	if !okA || !okB {
		return ErrSlotNotFound
	}

	// Vacate both slots so the cross-checks do not trip over the
	// assignments being exchanged.
	delete(st.Assignments[eventA.ID], roleA)
	delete(st.Assignments[eventB.ID], roleB)
	idx := st.BuildAssignmentIndex()

	restore := func() {
		commit(st, eventA.ID, roleA, personAID)
		commit(st, eventB.ID, roleB, personBID)
	}

	if ok, reason := e.Eligibility(st, idx, personB, eventA, roleA); !ok {
		restore()
		return &EligibilityError{PersonID: personB.ID, EventKey: eventA.Key(), Role: roleA, Reason: reason}
	}
	commit(st, eventA.ID, roleA, personBID)
	idx.Add(personBID, roster.ServiceRecord{Start: eventA.Start, Role: roleA, EventID: eventA.ID})

	if ok, reason := e.Eligibility(st, idx, personA, eventB, roleB); !ok {
		delete(st.Assignments[eventA.ID], roleA)
		restore()
		return &EligibilityError{PersonID: personA.ID, EventKey: eventB.Key(), Role: roleB, Reason: reason}
	}
	commit(st, eventB.ID, roleB, personAID)
	return nil
}

func commit(st *roster.State, eventID, role, personID string) {
	slots := st.Assignments[eventID]
	if slots == nil {
		slots = make(map[string]string)
		st.Assignments[eventID] = slots
	}
	slots[role] = personID
}

func personIDs(st *roster.State) []string {
	ids := make([]string, 0, len(st.People))
	for id := range st.People {
		ids = append(ids, id)
	}
	return ids
}
