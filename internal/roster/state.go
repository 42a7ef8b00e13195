package roster

import (
	"sort"
	"time"
)

// State is the complete in-memory dataset the engine operates on.
// Assignments are keyed by event id, then role code.
type State struct {
	People       map[string]Person
	Events       map[string]Event
	Series       map[string]Series
	Recurrences  map[string]Recurrence
	Assignments  map[string]map[string]string
	Availability map[string][]AvailabilityBlock
}

// NewState returns an empty, fully initialised state.
func NewState() *State {
	return &State{
		People:       make(map[string]Person),
		Events:       make(map[string]Event),
		Series:       make(map[string]Series),
		Recurrences:  make(map[string]Recurrence),
		Assignments:  make(map[string]map[string]string),
		Availability: make(map[string][]AvailabilityBlock),
	}
}

// Clone returns a deep copy suitable for undo snapshots.
func (s *State) Clone() *State {
	out := NewState()
	for id, person := range s.People {
		out.People[id] = person.Clone()
	}
	for id, event := range s.Events {
		out.Events[id] = event.Clone()
	}
	for id, series := range s.Series {
		out.Series[id] = series.Clone()
	}
	for id, rec := range s.Recurrences {
		out.Recurrences[id] = rec.Clone()
	}
	for eventID, slots := range s.Assignments {
		copied := make(map[string]string, len(slots))
		for role, personID := range slots {
			copied[role] = personID
		}
		out.Assignments[eventID] = copied
	}
	for personID, blocks := range s.Availability {
		out.Availability[personID] = append([]AvailabilityBlock(nil), blocks...)
	}
	return out
}

// FindEvent resolves an event by id or by its deterministic key.
func (s *State) FindEvent(identifier string) (Event, bool) {
	if event, ok := s.Events[identifier]; ok {
		return event, true
	}
	for _, event := range s.Events {
		if event.Key() == identifier {
			return event, true
		}
	}
	return Event{}, false
}

// EventsByStart returns all events ordered by start time, then key. This is
// the deterministic event order used by recalculation.
func (s *State) EventsByStart() []Event {
	events := make([]Event, 0, len(s.Events))
	for _, event := range s.Events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].Key() < events[j].Key()
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// ServiceRecord is one historical assignment of a person, used to derive
// workload and recency statistics.
type ServiceRecord struct {
	Start   time.Time
	Role    string
	EventID string
}

// AssignmentIndex maps each person to their chronologically ordered service
// records. It is rebuilt from assignments on demand and updated in place as
// a recalculation pass commits slots.
type AssignmentIndex map[string][]ServiceRecord

// BuildAssignmentIndex derives the per-person service history from the
// current assignments. Assignments pointing at deleted events are ignored.
func (s *State) BuildAssignmentIndex() AssignmentIndex {
	index := make(AssignmentIndex)
	for eventID, slots := range s.Assignments {
		event, ok := s.Events[eventID]
		if !ok {
			continue
		}
		for role, personID := range slots {
			index[personID] = append(index[personID], ServiceRecord{Start: event.Start, Role: role, EventID: eventID})
		}
	}
	for personID := range index {
		records := index[personID]
		sort.Slice(records, func(i, j int) bool { return records[i].Start.Before(records[j].Start) })
		index[personID] = records
	}
	return index
}

// Add appends a record for the person keeping chronological order.
func (idx AssignmentIndex) Add(personID string, record ServiceRecord) {
	records := append(idx[personID], record)
	sort.Slice(records, func(i, j int) bool { return records[i].Start.Before(records[j].Start) })
	idx[personID] = records
}

// Remove drops every record of the person for the given event.
func (idx AssignmentIndex) Remove(personID, eventID string) {
	records := idx[personID]
	kept := records[:0]
	for _, record := range records {
		if record.EventID != eventID {
			kept = append(kept, record)
		}
	}
	idx[personID] = kept
}
