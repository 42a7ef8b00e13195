package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestMutateRecordsHistoryOnSuccess(t *testing.T) {
	store := NewStore(fixedClock())

	err := store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1", Name: "Ana", Active: true}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.HistoryLen())

	store.View(func(st *State) {
		require.Contains(t, st.People, "p1")
	})
}

func TestMutateRollsBackOnError(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1", Active: true}
		return nil
	}))

	boom := errors.New("boom")
	err := store.Mutate("person.add", func(st *State) error {
		st.People["p2"] = Person{ID: "p2"}
		delete(st.People, "p1")
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, store.HistoryLen())

	store.View(func(st *State) {
		require.Contains(t, st.People, "p1")
		require.NotContains(t, st.People, "p2")
	})
}

func TestUndoRestoresExactPriorState(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("event.create", func(st *State) error {
		st.Events["e1"] = Event{ID: "e1", Community: "MAT", Quantity: 2}
		return nil
	}))
	require.NoError(t, store.Mutate("assignment.apply", func(st *State) error {
		st.Assignments["e1"] = map[string]string{"LIB": "p1"}
		return nil
	}))

	entry, err := store.Undo()
	require.NoError(t, err)
	require.Equal(t, "assignment.apply", entry.Label)
	store.View(func(st *State) {
		require.Empty(t, st.Assignments)
		require.Contains(t, st.Events, "e1")
	})

	entry, err = store.Undo()
	require.NoError(t, err)
	require.Equal(t, "event.create", entry.Label)
	store.View(func(st *State) {
		require.Empty(t, st.Events)
	})

	_, err = store.Undo()
	require.ErrorIs(t, err, ErrNoHistory)
}

func TestUndoSnapshotIsIsolatedFromLaterMutation(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1", Roles: []string{"LIB"}}
		return nil
	}))
	require.NoError(t, store.Mutate("person.roles", func(st *State) error {
		person := st.People["p1"]
		person.Roles = append(person.Roles, "CRU")
		st.People["p1"] = person
		return nil
	}))

	_, err := store.Undo()
	require.NoError(t, err)
	store.View(func(st *State) {
		require.Equal(t, []string{"LIB"}, st.People["p1"].Roles)
	})
}

func TestHistoryIsCapped(t *testing.T) {
	store := NewStore(fixedClock())
	for i := 0; i < historyLimit+10; i++ {
		require.NoError(t, store.Mutate("noop", func(st *State) error { return nil }))
	}
	require.Equal(t, historyLimit, store.HistoryLen())
}

func TestReplaceClearsHistory(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1"}
		return nil
	}))

	loaded := NewState()
	loaded.People["p2"] = Person{ID: "p2"}
	store.Replace(loaded)

	require.Equal(t, 0, store.HistoryLen())
	store.View(func(st *State) {
		require.NotContains(t, st.People, "p1")
		require.Contains(t, st.People, "p2")
	})

	store.Replace(nil)
	store.View(func(st *State) {
		require.Empty(t, st.People)
	})
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1", Roles: []string{"LIB"}}
		return nil
	}))

	snapshot := store.Snapshot()
	snapshot.People["p1"] = Person{ID: "p1", Roles: []string{"TUR"}}

	store.View(func(st *State) {
		require.Equal(t, []string{"LIB"}, st.People["p1"].Roles)
	})
}

func TestResetAllWipesStateAndHistory(t *testing.T) {
	store := NewStore(fixedClock())
	require.NoError(t, store.Mutate("person.add", func(st *State) error {
		st.People["p1"] = Person{ID: "p1"}
		return nil
	}))

	store.ResetAll()
	require.Equal(t, 0, store.HistoryLen())
	store.View(func(st *State) {
		require.Empty(t, st.People)
	})
}
