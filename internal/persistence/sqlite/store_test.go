package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/liturgy-roster/internal/roster"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleState() *roster.State {
	state := roster.NewState()
	base := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	end := base.Add(2 * time.Hour)

	state.People["p1"] = roster.Person{
		ID: "p1", Name: "Ana", Community: "MAT",
		Roles: []string{"LIB", "CRU"}, Morning: true, Active: true, Locale: "pt-BR",
	}
	state.Events["e1"] = roster.Event{
		ID: "e1", Community: "MAT", Start: base, End: &end,
		Quantity: 2, Kind: roster.KindSolemn, Pool: []string{"p1"},
	}
	state.Events["e2"] = roster.Event{
		ID: "e2", Community: "STM", Start: base.AddDate(0, 0, 7),
		Quantity: 1, Kind: roster.KindRegular,
	}
	state.Assignments["e1"] = map[string]string{"LIB": "p1"}
	state.Series["s1"] = roster.Series{
		ID: "s1", BaseEventID: "e1", EventIDs: []string{"e1", "e2"},
		Kind: roster.KindRegular,
	}
	state.Recurrences["r1"] = roster.Recurrence{
		ID: "r1", Community: "MAT", BaseStart: base,
		Rule: "WEEKLY:SUN", Quantity: 2, Kind: roster.KindRegular,
	}
	state.Availability["p1"] = []roster.AvailabilityBlock{
		{Start: base.AddDate(0, 1, 0), End: base.AddDate(0, 1, 5), Note: "trip"},
	}
	return state
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	state := sampleState()

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}

func TestStoreLoadEmptyDatabase(t *testing.T) {
	store := openTestStore(t)

	state, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, roster.NewState(), state)
}

func TestStoreSaveReplacesPreviousSnapshot(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Save(sampleState()))

	replacement := roster.NewState()
	replacement.People["p9"] = roster.Person{ID: "p9", Name: "Cid", Community: "MAT", Active: true}
	require.NoError(t, store.Save(replacement))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, replacement, loaded)
}

func TestStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.db")
	store, err := Open(path)
	require.NoError(t, err)
	state := sampleState()
	require.NoError(t, store.Save(state))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}
