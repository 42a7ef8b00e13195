// Package persistence serializes the full roster state to and from snapshot
// backends. The in-memory store stays authoritative; snapshots are explicit
// save and load points, not a write-through cache.
package persistence

import (
	"sort"

	"github.com/example/liturgy-roster/internal/roster"
)

// documentVersion guards against loading snapshots written by an
// incompatible layout.
const documentVersion = 1

// document is the serialized form of a roster state. Collections are sorted
// slices so that two saves of the same state produce identical bytes.
type document struct {
	Version      int                                   `json:"version"`
	People       []roster.Person                       `json:"people"`
	Events       []roster.Event                        `json:"events"`
	Series       []roster.Series                       `json:"series"`
	Recurrences  []roster.Recurrence                   `json:"recurrences"`
	Assignments  []roster.Assignment                   `json:"assignments"`
	Availability map[string][]roster.AvailabilityBlock `json:"availability,omitempty"`
}

func encodeState(state *roster.State) document {
	doc := document{Version: documentVersion}
	for _, person := range state.People {
		doc.People = append(doc.People, person.Clone())
	}
	sort.Slice(doc.People, func(i, j int) bool { return doc.People[i].ID < doc.People[j].ID })

	for _, event := range state.Events {
		doc.Events = append(doc.Events, event.Clone())
	}
	sort.Slice(doc.Events, func(i, j int) bool { return doc.Events[i].ID < doc.Events[j].ID })

	for _, series := range state.Series {
		doc.Series = append(doc.Series, series.Clone())
	}
	sort.Slice(doc.Series, func(i, j int) bool { return doc.Series[i].ID < doc.Series[j].ID })

	for _, rec := range state.Recurrences {
		doc.Recurrences = append(doc.Recurrences, rec.Clone())
	}
	sort.Slice(doc.Recurrences, func(i, j int) bool { return doc.Recurrences[i].ID < doc.Recurrences[j].ID })

	for eventID, slots := range state.Assignments {
		for role, personID := range slots {
			doc.Assignments = append(doc.Assignments, roster.Assignment{EventID: eventID, Role: role, PersonID: personID})
		}
	}
	sort.Slice(doc.Assignments, func(i, j int) bool {
		if doc.Assignments[i].EventID != doc.Assignments[j].EventID {
			return doc.Assignments[i].EventID < doc.Assignments[j].EventID
		}
		return doc.Assignments[i].Role < doc.Assignments[j].Role
	})

	if len(state.Availability) > 0 {
		doc.Availability = make(map[string][]roster.AvailabilityBlock, len(state.Availability))
		for personID, blocks := range state.Availability {
			doc.Availability[personID] = append([]roster.AvailabilityBlock(nil), blocks...)
		}
	}
	return doc
}

func decodeState(doc document) *roster.State {
	state := roster.NewState()
	for _, person := range doc.People {
		state.People[person.ID] = person
	}
	for _, event := range doc.Events {
		state.Events[event.ID] = event
	}
	for _, series := range doc.Series {
		state.Series[series.ID] = series
	}
	for _, rec := range doc.Recurrences {
		state.Recurrences[rec.ID] = rec
	}
	for _, assignment := range doc.Assignments {
		slots := state.Assignments[assignment.EventID]
		if slots == nil {
			slots = make(map[string]string)
			state.Assignments[assignment.EventID] = slots
		}
		slots[assignment.Role] = assignment.PersonID
	}
	for personID, blocks := range doc.Availability {
		state.Availability[personID] = append([]roster.AvailabilityBlock(nil), blocks...)
	}
	return state
}
