package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/liturgy-roster/internal/roster"
)

func seedPtr(v int64) *int64 { return &v }

func TestRecalculateFillsAllSlotsDeterministically(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{
		testPerson("p1"), testPerson("p2"), testPerson("p3"), testPerson("p4"),
	}
	events := []roster.Event{
		testEvent("e1", baseStart, 2),
		testEvent("e2", baseStart.AddDate(0, 0, 7), 2),
	}

	run := func() map[string]map[string]string {
		st := testState(people, events)
		result, err := eng.Recalculate(st, roster.Period{}, seedPtr(42))
		require.NoError(t, err)
		require.Equal(t, 4, result.Filled)
		require.Empty(t, result.Skipped)
		return st.Assignments
	}

	first := run()
	second := run()
	require.Equal(t, first, second)
}

func TestRecalculateSpreadsLoadAcrossPeople(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{
		testPerson("p1", "LIB"), testPerson("p2", "LIB"),
	}
	// Two single-slot events a week apart: recency and rotation push the
	// second event to whoever sat out the first.
	events := []roster.Event{
		testEvent("e1", baseStart, 1),
		testEvent("e2", baseStart.AddDate(0, 0, 7), 1),
	}
	st := testState(people, events)

	_, err := eng.Recalculate(st, roster.Period{}, seedPtr(7))
	require.NoError(t, err)
	require.NotEqual(t, st.Assignments["e1"]["LIB"], st.Assignments["e2"]["LIB"])
}

func TestRecalculateKeepsExistingAssignments(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	event := testEvent("e1", baseStart, 2)
	st := testState(people, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"LIB": "p2"}

	result, err := eng.Recalculate(st, roster.Period{}, seedPtr(1))
	require.NoError(t, err)
	require.Equal(t, 1, result.Filled)
	require.Equal(t, "p2", st.Assignments["e1"]["LIB"])
}

func TestRecalculateReportsUnfillableSlots(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1", "LIB")}
	event := testEvent("e1", baseStart, 2)
	st := testState(people, []roster.Event{event})

	result, err := eng.Recalculate(st, roster.Period{}, seedPtr(1))
	require.NoError(t, err)
	require.Equal(t, 1, result.Filled)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, "CRU", result.Skipped[0].Role)
}

func TestRecalculateHonoursPeriod(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	inside := testEvent("e1", baseStart, 1)
	outside := testEvent("e2", baseStart.AddDate(0, 2, 0), 1)
	st := testState(people, []roster.Event{inside, outside})
	period := roster.Period{Start: baseStart.AddDate(0, 0, -1), End: baseStart.AddDate(0, 0, 1)}

	result, err := eng.Recalculate(st, period, seedPtr(1))
	require.NoError(t, err)
	require.Equal(t, 1, result.Filled)
	require.Empty(t, st.Assignments["e2"])
}

func TestResetClearsOnlyPeriodAssignments(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1")}
	inside := testEvent("e1", baseStart, 1)
	outside := testEvent("e2", baseStart.AddDate(0, 2, 0), 1)
	st := testState(people, []roster.Event{inside, outside})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"LIB": "p1"}

	removed := eng.Reset(st, roster.Period{Start: baseStart.AddDate(0, 0, -1), End: baseStart.AddDate(0, 0, 1)})
	require.Equal(t, 1, removed)
	require.NotContains(t, st.Assignments, "e1")
	require.Contains(t, st.Assignments, "e2")

	removed = eng.Reset(st, roster.Period{})
	require.Equal(t, 1, removed)
	require.Empty(t, st.Assignments)
}

func TestResetSamePeriodTwiceRemovesNothingMore(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1")}
	inside := testEvent("e1", baseStart, 1)
	outside := testEvent("e2", baseStart.AddDate(0, 2, 0), 1)
	st := testState(people, []roster.Event{inside, outside})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"LIB": "p1"}
	period := roster.Period{Start: baseStart.AddDate(0, 0, -1), End: baseStart.AddDate(0, 0, 1)}

	require.Equal(t, 1, eng.Reset(st, period))
	require.Equal(t, 0, eng.Reset(st, period))
	require.NotContains(t, st.Assignments, "e1")
	require.Contains(t, st.Assignments, "e2")
}

func TestAssignReplacesOccupant(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	event := testEvent("e1", baseStart, 2)
	st := testState(people, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}

	require.NoError(t, eng.Assign(st, event, "LIB", st.People["p2"]))
	require.Equal(t, "p2", st.Assignments["e1"]["LIB"])
}

func TestAssignReportsFailingReason(t *testing.T) {
	eng := newTestEngine(t)
	person := testPerson("p1", "LIB")
	event := testEvent("e1", baseStart, 2)
	st := testState([]roster.Person{person}, []roster.Event{event})

	err := eng.Assign(st, event, "CRU", person)
	var eligErr *EligibilityError
	require.ErrorAs(t, err, &eligErr)
	require.Equal(t, ReasonCapability, eligErr.Reason)
	require.Empty(t, st.Assignments)
}

func TestClearRemovesSlot(t *testing.T) {
	eng := newTestEngine(t)
	event := testEvent("e1", baseStart, 2)
	st := testState([]roster.Person{testPerson("p1")}, []roster.Event{event})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}

	require.NoError(t, eng.Clear(st, event, "LIB"))
	require.Empty(t, st.Assignments)

	require.ErrorIs(t, eng.Clear(st, event, "LIB"), ErrSlotNotFound)
}

func TestSwapExchangesPeople(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	first := testEvent("e1", baseStart, 2)
	second := testEvent("e2", baseStart.AddDate(0, 0, 7), 2)
	st := testState(people, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"CRU": "p2"}

	require.NoError(t, eng.Swap(st, first, "LIB", second, "CRU"))
	require.Equal(t, "p2", st.Assignments["e1"]["LIB"])
	require.Equal(t, "p1", st.Assignments["e2"]["CRU"])
}

func TestSwapRejectsCapabilityMismatchAndRestores(t *testing.T) {
	eng := newTestEngine(t)
	libOnly := testPerson("p1", "LIB")
	both := testPerson("p2", "LIB", "CRU")
	first := testEvent("e1", baseStart, 2)
	second := testEvent("e2", baseStart.AddDate(0, 0, 7), 2)
	st := testState([]roster.Person{libOnly, both}, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"CRU": "p2"}

	err := eng.Swap(st, first, "LIB", second, "CRU")
	var eligErr *EligibilityError
	require.ErrorAs(t, err, &eligErr)
	require.Equal(t, "p1", eligErr.PersonID)
	require.Equal(t, ReasonCapability, eligErr.Reason)

	require.Equal(t, "p1", st.Assignments["e1"]["LIB"])
	require.Equal(t, "p2", st.Assignments["e2"]["CRU"])
}

func TestSwapTwiceRestoresOriginalPairing(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2")}
	first := testEvent("e1", baseStart, 2)
	second := testEvent("e2", baseStart.AddDate(0, 0, 7), 2)
	st := testState(people, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"CRU": "p2"}

	require.NoError(t, eng.Swap(st, first, "LIB", second, "CRU"))
	require.NoError(t, eng.Swap(st, first, "LIB", second, "CRU"))

	require.Equal(t, "p1", st.Assignments["e1"]["LIB"])
	require.Equal(t, "p2", st.Assignments["e2"]["CRU"])
}

func TestSwapRejectsEmptySlot(t *testing.T) {
	eng := newTestEngine(t)
	first := testEvent("e1", baseStart, 2)
	second := testEvent("e2", baseStart.AddDate(0, 0, 7), 2)
	st := testState([]roster.Person{testPerson("p1")}, []roster.Event{first, second})
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}

	require.ErrorIs(t, eng.Swap(st, first, "LIB", second, "CRU"), ErrSlotNotFound)
}

func TestRecalculateNeverDoubleBooksWithinEvent(t *testing.T) {
	eng := newTestEngine(t)
	people := []roster.Person{testPerson("p1"), testPerson("p2"), testPerson("p3")}
	event := testEvent("e1", baseStart, 2)
	st := testState(people, []roster.Event{event})

	_, err := eng.Recalculate(st, roster.Period{}, seedPtr(3))
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, personID := range st.Assignments["e1"] {
		require.False(t, seen[personID], "person assigned twice in one event")
		seen[personID] = true
	}
}
