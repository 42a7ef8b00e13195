package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriodMonth(t *testing.T) {
	period, err := ParsePeriod("2025-02", "", "", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), period.Start)
	require.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), period.End)
}

func TestParsePeriodFromTo(t *testing.T) {
	period, err := ParsePeriod("", "2025-03-10", "2025-03-20", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), period.Start)
	require.Equal(t, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), period.End)
}

func TestParsePeriodEmptyIsZero(t *testing.T) {
	period, err := ParsePeriod("", "", "", time.UTC)
	require.NoError(t, err)
	require.True(t, period.IsZero())
}

func TestParsePeriodRejections(t *testing.T) {
	cases := map[string]struct {
		month, from, to string
	}{
		"month and range together": {month: "2025-02", from: "2025-02-01", to: "2025-02-10"},
		"malformed month":          {month: "Feb 2025"},
		"from without to":          {from: "2025-03-10"},
		"to without from":          {to: "2025-03-20"},
		"malformed from":           {from: "10/03/2025", to: "2025-03-20"},
		"end before start":         {from: "2025-03-20", to: "2025-03-10"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePeriod(tc.month, tc.from, tc.to, time.UTC)
			require.ErrorIs(t, err, ErrInvalidPeriod)
		})
	}
}

func TestPeriodContainsComparesByDate(t *testing.T) {
	period := Period{
		Start: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
	}

	require.True(t, period.Contains(time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)))
	require.True(t, period.Contains(time.Date(2025, time.March, 12, 0, 0, 1, 0, time.UTC)))
	require.False(t, period.Contains(time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC)))
	require.False(t, period.Contains(time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)))
}

func TestWindowAroundSpansBothDirections(t *testing.T) {
	ref := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	period := WindowAround(ref, 90)
	require.Equal(t, ref.AddDate(0, 0, -90), period.Start)
	require.Equal(t, ref.AddDate(0, 0, 90), period.End)
}
