package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/liturgy-roster/internal/roster"
)

func findViolation(violations []Violation, message string) (Violation, bool) {
	for _, violation := range violations {
		if violation.Message == message {
			return violation, true
		}
	}
	return Violation{}, false
}

func TestCheckConflictsWarnsOnUnfilledSlots(t *testing.T) {
	eng := newTestEngine(t)
	event := testEvent("e1", baseStart, 2)
	st := testState([]roster.Person{testPerson("p1")}, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}

	violations, err := eng.CheckConflicts(st, roster.Period{})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	require.Equal(t, SeverityWarn, violations[0].Severity)
	require.Equal(t, "CRU", violations[0].Role)
	require.Equal(t, event.Key(), violations[0].EventKey)
}

func TestCheckConflictsFlagsMissingPerson(t *testing.T) {
	eng := newTestEngine(t)
	event := testEvent("e1", baseStart, 1)
	st := testState(nil, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"LIB": "ghost"}

	violations, err := eng.CheckConflicts(st, roster.Period{})
	require.NoError(t, err)
	found, ok := findViolation(violations, "assigned person no longer exists")
	require.True(t, ok)
	require.Equal(t, SeverityError, found.Severity)
	require.Equal(t, "ghost", found.PersonID)
}

func TestCheckConflictsFlagsCapabilityAndInactive(t *testing.T) {
	eng := newTestEngine(t)
	person := testPerson("p1", "LIB")
	person.Active = false
	event := testEvent("e1", baseStart, 2)
	st := testState([]roster.Person{person}, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"CRU": "p1"}

	violations, err := eng.CheckConflicts(st, roster.Period{})
	require.NoError(t, err)
	_, ok := findViolation(violations, "assigned person lacks the role capability")
	require.True(t, ok)
	_, ok = findViolation(violations, "assigned person is inactive")
	require.True(t, ok)
}

func TestCheckConflictsFlagsOverlappingAssignments(t *testing.T) {
	eng := newTestEngine(t)
	person := testPerson("p1")
	first := testEvent("e1", baseStart, 1)
	second := testEvent("e2", baseStart.Add(2*time.Hour), 1)
	st := testState([]roster.Person{person}, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"LIB": "p1"}

	violations, err := eng.CheckConflicts(st, roster.Period{})
	require.NoError(t, err)
	var overlaps []Violation
	for _, violation := range violations {
		if violation.Severity == SeverityError {
			overlaps = append(overlaps, violation)
		}
	}
	require.Len(t, overlaps, 1)
	require.Equal(t, "p1", overlaps[0].PersonID)
}

func TestCheckConflictsHonoursPeriod(t *testing.T) {
	eng := newTestEngine(t)
	inside := testEvent("e1", baseStart, 1)
	outside := testEvent("e2", baseStart.AddDate(0, 2, 0), 1)
	st := testState(nil, []roster.Event{inside, outside})

	period := roster.Period{Start: baseStart.AddDate(0, 0, -1), End: baseStart.AddDate(0, 0, 1)}
	violations, err := eng.CheckConflicts(st, period)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	require.Equal(t, inside.Key(), violations[0].EventKey)
}

func TestStatisticsAggregatesAndOrders(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	first := testEvent("e1", baseStart, 2)
	second := testEvent("e2", baseStart.AddDate(0, 0, 7), 2)
	st := testState(people, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1", "CRU": "p2"}
	st.Assignments["e2"] = map[string]string{"LIB": "p1"}

	stats := eng.Statistics(st, roster.Period{})
	require.Len(t, stats, 2)
	require.Equal(t, "p1", stats[0].PersonID)
	require.Equal(t, 2, stats[0].Total)
	require.Equal(t, map[string]int{"LIB": 2}, stats[0].ByRole)
	require.NotNil(t, stats[0].LastAssigned)
	require.True(t, stats[0].LastAssigned.Equal(second.Start))
	require.Equal(t, 1, stats[1].Total)
}

func TestStatisticsHonoursPeriod(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1")}
	inside := testEvent("e1", baseStart, 1)
	outside := testEvent("e2", baseStart.AddDate(0, 2, 0), 1)
	st := testState(people, []roster.Event{inside, outside})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"LIB": "p1"}

	period := roster.Period{Start: baseStart.AddDate(0, 0, -1), End: baseStart.AddDate(0, 0, 1)}
	stats := eng.Statistics(st, period)
	require.Len(t, stats, 1)
	require.Equal(t, 1, stats[0].Total)
}
