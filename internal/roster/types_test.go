package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventKeyFormat(t *testing.T) {
	event := Event{
		Community: "MAT",
		Start:     time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC),
		Quantity:  4,
	}
	require.Equal(t, "MAT020320250930004", event.Key())
}

func TestEventEffectiveEnd(t *testing.T) {
	start := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	event := Event{Start: start}
	require.Equal(t, start.Add(110*time.Minute), event.EffectiveEnd(110*time.Minute))

	explicit := start.Add(3 * time.Hour)
	event.End = &explicit
	require.Equal(t, explicit, event.EffectiveEnd(110*time.Minute))
}

func TestAvailabilityBlockValidateRejectsInvertedInterval(t *testing.T) {
	base := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, AvailabilityBlock{Start: base, End: base.Add(time.Hour)}.Validate())
	require.ErrorIs(t, AvailabilityBlock{Start: base, End: base}.Validate(), ErrInvalidInterval)
	require.ErrorIs(t, AvailabilityBlock{Start: base, End: base.Add(-time.Hour)}.Validate(), ErrInvalidInterval)
}

func TestAvailabilityBlockOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	block := AvailabilityBlock{Start: base, End: base.Add(time.Hour)}

	require.True(t, block.Overlaps(base.Add(30*time.Minute), base.Add(2*time.Hour)))
	// Touching endpoints do not overlap.
	require.False(t, block.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	require.False(t, block.Overlaps(base.Add(-time.Hour), base))
}

func TestEventInPool(t *testing.T) {
	event := Event{}
	require.True(t, event.InPool("anyone"))

	event.Pool = []string{"p1"}
	require.True(t, event.InPool("p1"))
	require.False(t, event.InPool("p2"))
}

func TestBuildAssignmentIndexOrdersAndSkipsDeletedEvents(t *testing.T) {
	st := NewState()
	early := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 7)
	st.Events["e1"] = Event{ID: "e1", Community: "MAT", Start: late, Quantity: 1}
	st.Events["e2"] = Event{ID: "e2", Community: "MAT", Start: early, Quantity: 1}
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Assignments["e2"] = map[string]string{"CRU": "p1"}
	st.Assignments["gone"] = map[string]string{"LIB": "p1"}

	idx := st.BuildAssignmentIndex()
	records := idx["p1"]
	require.Len(t, records, 2)
	require.Equal(t, "e2", records[0].EventID)
	require.Equal(t, "e1", records[1].EventID)
}

func TestStateCloneIsDeep(t *testing.T) {
	st := NewState()
	st.People["p1"] = Person{ID: "p1", Roles: []string{"LIB"}}
	st.Assignments["e1"] = map[string]string{"LIB": "p1"}
	st.Availability["p1"] = []AvailabilityBlock{{Start: time.Now(), End: time.Now().Add(time.Hour)}}

	clone := st.Clone()
	clone.People["p1"] = Person{ID: "p1", Roles: []string{"TUR"}}
	clone.Assignments["e1"]["LIB"] = "p2"
	clone.Availability["p1"][0].Note = "changed"

	require.Equal(t, []string{"LIB"}, st.People["p1"].Roles)
	require.Equal(t, "p1", st.Assignments["e1"]["LIB"])
	require.Empty(t, st.Availability["p1"][0].Note)
}
