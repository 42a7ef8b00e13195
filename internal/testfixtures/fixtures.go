// Package testfixtures provides deterministic clocks, identifier
// generators, and roster builders shared by the package test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

var (
	personCounter uint64
	eventCounter  uint64
)

var referenceTime = time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// PersonOption configures a generated person fixture.
type PersonOption func(*roster.Person)

// NewPerson returns a deterministic active person in the MAT community with
// optional overrides.
func NewPerson(opts ...PersonOption) roster.Person {
	idx := atomic.AddUint64(&personCounter, 1)
	person := roster.Person{
		ID:        fmt.Sprintf("person-%03d", idx),
		Name:      fmt.Sprintf("Person %03d", idx),
		Community: "MAT",
		Roles:     []string{"LIB", "CRU"},
		Active:    true,
	}
	for _, opt := range opts {
		opt(&person)
	}
	return person
}

// WithPersonID overrides the generated identifier.
func WithPersonID(id string) PersonOption {
	return func(p *roster.Person) { p.ID = id }
}

// WithName overrides the generated name.
func WithName(name string) PersonOption {
	return func(p *roster.Person) { p.Name = name }
}

// WithRoles overrides the capability list.
func WithRoles(roles ...string) PersonOption {
	return func(p *roster.Person) { p.Roles = roles }
}

// WithCommunity overrides the community code.
func WithCommunity(code string) PersonOption {
	return func(p *roster.Person) { p.Community = code }
}

// WithMorning marks the person as a morning server.
func WithMorning() PersonOption {
	return func(p *roster.Person) { p.Morning = true }
}

// Inactive marks the person as inactive.
func Inactive() PersonOption {
	return func(p *roster.Person) { p.Active = false }
}

// EventOption configures a generated event fixture.
type EventOption func(*roster.Event)

// NewEvent returns a deterministic regular MAT event with optional
// overrides. Successive events are spaced one day apart from the reference
// time.
func NewEvent(opts ...EventOption) roster.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	event := roster.Event{
		ID:        fmt.Sprintf("event-%03d", idx),
		Community: "MAT",
		Start:     referenceTime.AddDate(0, 0, int(idx)),
		Quantity:  2,
		Kind:      roster.KindRegular,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventID overrides the generated identifier.
func WithEventID(id string) EventOption {
	return func(e *roster.Event) { e.ID = id }
}

// WithStart overrides the event start.
func WithStart(start time.Time) EventOption {
	return func(e *roster.Event) { e.Start = start }
}

// WithQuantity overrides the required headcount.
func WithQuantity(quantity int) EventOption {
	return func(e *roster.Event) { e.Quantity = quantity }
}

// WithKind overrides the event kind.
func WithKind(kind string) EventOption {
	return func(e *roster.Event) { e.Kind = kind }
}

// WithPool restricts the event to the given people.
func WithPool(personIDs ...string) EventOption {
	return func(e *roster.Event) { e.Pool = personIDs }
}

// WithEventCommunity overrides the community code.
func WithEventCommunity(code string) EventOption {
	return func(e *roster.Event) { e.Community = code }
}

// NewState builds a state populated with the given people and events.
func NewState(people []roster.Person, events []roster.Event) *roster.State {
	state := roster.NewState()
	for _, person := range people {
		state.People[person.ID] = person
	}
	for _, event := range events {
		state.Events[event.ID] = event
	}
	return state
}
