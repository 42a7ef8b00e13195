package application_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/testfixtures"
)

func createWeeklyRecurrence(t *testing.T, h *testfixtures.ServiceHarness) string {
	t.Helper()
	rec, err := h.Service.CreateRecurrence(application.RecurrenceInput{
		Community: "MAT",
		BaseStart: "2025-03-02T09:00",
		Rule:      "WEEKLY:SUN",
		Quantity:  2,
	})
	require.NoError(t, err)
	return rec.ID
}

func TestCreateRecurrenceValidatesRule(t *testing.T) {
	h := testfixtures.NewServiceHarness()

	_, err := h.Service.CreateRecurrence(application.RecurrenceInput{
		Community: "MAT",
		BaseStart: "2025-03-02T09:00",
		Rule:      "WEEKLY",
		Quantity:  2,
	})
	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.FieldErrors, "rule")
}

func TestGenerateRecurrenceMaterializesAndLinks(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)

	created, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	// March 2025 has five Sundays from the base start on.
	require.Len(t, created, 5)
	for _, event := range created {
		require.Equal(t, time.Sunday, event.Start.Weekday())
		require.Equal(t, 9, event.Start.Hour())
		require.Equal(t, 2, event.Quantity)
	}

	series := h.Service.ListSeries()
	require.Len(t, series, 1)
	require.Len(t, series[0].EventIDs, 5)
	require.Equal(t, series[0].EventIDs[0], series[0].BaseEventID)
}

func TestGenerateRecurrenceIsIdempotent(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)

	first, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, first, 5)

	second, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Empty(t, second)

	events, err := h.Service.ListEvents(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestGenerateRecurrenceRequiresPeriod(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)

	_, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{})
	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.FieldErrors, "period")
}

func TestSetSeriesPoolPropagatesToEvents(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	person := createPerson(t, h, "Ana")
	recID := createWeeklyRecurrence(t, h)
	_, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	seriesID := h.Service.ListSeries()[0].ID

	updated, err := h.Service.SetSeriesPool(seriesID, []string{person.ID})
	require.NoError(t, err)
	require.Equal(t, []string{person.ID}, updated.Pool)

	events, err := h.Service.ListEvents(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	for _, event := range events {
		require.Equal(t, []string{person.ID}, event.Pool)
	}
}

func TestRebaseSeriesShiftsEveryEvent(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)
	created, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	seriesID := h.Service.ListSeries()[0].ID

	// Move the base from 09:00 to 10:30; every occurrence shifts 90 minutes.
	_, err = h.Service.RebaseSeries(seriesID, "2025-03-02T10:30")
	require.NoError(t, err)

	events, err := h.Service.ListEvents(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, events, len(created))
	for _, event := range events {
		require.Equal(t, 10, event.Start.Hour())
		require.Equal(t, 30, event.Start.Minute())
	}
}

func TestDeleteSeriesKeepsEvents(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)
	_, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	seriesID := h.Service.ListSeries()[0].ID

	require.NoError(t, h.Service.DeleteSeries(seriesID))
	require.Empty(t, h.Service.ListSeries())

	events, err := h.Service.ListEvents(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestDeleteRecurrenceKeepsGeneratedEvents(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	recID := createWeeklyRecurrence(t, h)
	_, err := h.Service.GenerateRecurrence(recID, application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)

	require.NoError(t, h.Service.DeleteRecurrence(recID))
	require.Empty(t, h.Service.ListRecurrences())

	events, err := h.Service.ListEvents(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestExportCSVRendersScheduleRows(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	ana := createPerson(t, h, "Ana")
	event := createEvent(t, h, "2025-03-09T10:00", 2)
	require.NoError(t, h.Service.Assign(event.ID, "LIB", ana.ID))

	data, err := h.Service.ExportCSV(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "event,community,date,time,kind,role,person", lines[0])
	require.Contains(t, lines[1], "2025-03-09")
	require.Contains(t, lines[1], "LIB")
	require.Contains(t, lines[1], "Ana")
	// The unfilled slot leaves the person column empty.
	require.True(t, strings.HasSuffix(lines[2], ","))
}

func TestExportICSRendersCalendar(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	ana := createPerson(t, h, "Ana")
	event := createEvent(t, h, "2025-03-09T10:00", 2)
	require.NoError(t, h.Service.Assign(event.ID, "LIB", ana.ID))

	data, err := h.Service.ExportICS(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "BEGIN:VCALENDAR")
	require.Contains(t, content, "UID:"+event.ID+"@liturgy-roster")
	require.Contains(t, content, "SUMMARY:Matriz")
	require.Contains(t, content, "LIB: Ana")
	require.Contains(t, content, "CRU: ?")
	require.Contains(t, content, "END:VCALENDAR")
}

func TestExportICSDefaultPeriodUsesViewWindow(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	ana := createPerson(t, h, "Ana")
	near := createEvent(t, h, "2025-03-09T10:00", 1)
	far := createEvent(t, h, "2025-04-20T10:00", 1)
	require.NoError(t, h.Service.Assign(near.ID, "LIB", ana.ID))

	data, err := h.Service.ExportICS(application.PeriodInput{})
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "UID:"+near.ID+"@liturgy-roster")
	require.Contains(t, content, "LIB: Ana")
	require.NotContains(t, content, "UID:"+far.ID+"@liturgy-roster")
}

func TestSaveAndLoadStateRoundTrip(t *testing.T) {
	snapshots := testfixtures.NewMemorySnapshots()
	h := testfixtures.NewServiceHarness(testfixtures.WithSnapshots(snapshots))
	ana := createPerson(t, h, "Ana")
	event := createEvent(t, h, "2025-03-09T10:00", 2)
	require.NoError(t, h.Service.Assign(event.ID, "LIB", ana.ID))

	require.NoError(t, h.Service.SaveState())

	h.Service.ResetAll()
	require.Empty(t, h.Service.ListPeople())

	require.NoError(t, h.Service.LoadState())
	require.Len(t, h.Service.ListPeople(), 1)
	rows, err := h.Service.Schedule(application.PeriodInput{Month: "2025-03"})
	require.NoError(t, err)
	require.Equal(t, ana.ID, rows[0].PersonID)

	// Loading clears the undo history.
	_, err = h.Service.Undo()
	require.Error(t, err)
}

func TestSaveStateWithoutBackend(t *testing.T) {
	h := testfixtures.NewServiceHarness()
	require.ErrorIs(t, h.Service.SaveState(), application.ErrNoSnapshotStore)
	require.ErrorIs(t, h.Service.LoadState(), application.ErrNoSnapshotStore)
}
