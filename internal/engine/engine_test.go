package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/liturgy-roster/internal/config"
	"github.com/example/liturgy-roster/internal/roster"
)

var baseStart = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(config.Default())
	require.NoError(t, err)
	return eng
}

func testPerson(id string, roles ...string) roster.Person {
	if len(roles) == 0 {
		roles = []string{"LIB", "CRU"}
	}
	return roster.Person{
		ID:        id,
		Name:      "Person " + id,
		Community: "MAT",
		Roles:     roles,
		Active:    true,
	}
}

func testEvent(id string, start time.Time, quantity int) roster.Event {
	return roster.Event{
		ID:        id,
		Community: "MAT",
		Start:     start,
		Quantity:  quantity,
		Kind:      roster.KindRegular,
	}
}

func testState(people []roster.Person, events []roster.Event) *roster.State {
	st := roster.NewState()
	for _, person := range people {
		st.People[person.ID] = person
	}
	for _, event := range events {
		st.Events[event.ID] = event
	}
	return st
}

func TestRolesForUsesConfiguredPacks(t *testing.T) {
	eng := newTestEngine(t)

	roles, err := eng.RolesFor(3)
	require.NoError(t, err)
	require.Equal(t, []string{"LIB", "CRU", "MIC"}, roles)

	roles, err = eng.RolesFor(8)
	require.NoError(t, err)
	require.Len(t, roles, 8)
}

func TestRolesForFallsBackToGenericSlots(t *testing.T) {
	eng := newTestEngine(t)

	roles, err := eng.RolesFor(10)
	require.NoError(t, err)
	require.Equal(t, []string{"AUX1", "AUX2", "AUX3", "AUX4", "AUX5", "AUX6", "AUX7", "AUX8", "AUX9", "AUX10"}, roles)
}

func TestRolesForRejectsNonPositiveQuantity(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.RolesFor(0)
	require.ErrorIs(t, err, roster.ErrInvalidQuantity)
}

func TestMissingRolesSkipsFilledSlots(t *testing.T) {
	eng := newTestEngine(t)
	event := testEvent("e1", baseStart, 3)
	st := testState([]roster.Person{testPerson("p1")}, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"CRU": "p1"}

	missing, err := eng.MissingRoles(st, event)
	require.NoError(t, err)
	require.Equal(t, []string{"LIB", "MIC"}, missing)
}
