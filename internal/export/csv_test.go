package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteCSVRendersHeaderAndRows(t *testing.T) {
	start := time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC)
	rows := []Row{
		{EventKey: "MAT020320250930002", Community: "MAT", Start: start, Kind: "REG", Role: "LIB", PersonName: "Ana"},
		{EventKey: "MAT020320250930002", Community: "MAT", Start: start, Kind: "REG", Role: "CRU"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := []string{
		"event,community,date,time,kind,role,person",
		"MAT020320250930002,MAT,2025-03-02,09:30,REG,LIB,Ana",
		"MAT020320250930002,MAT,2025-03-02,09:30,REG,CRU,",
		"",
	}
	require.Equal(t, lines, strings.Split(buf.String(), "\n"))
}

func TestWriteCSVQuotesFieldsWithCommas(t *testing.T) {
	start := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	rows := []Row{
		{EventKey: "k", Community: "MAT", Start: start, Kind: "REG", Role: "LIB", PersonName: "Silva, Ana"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	require.Contains(t, buf.String(), `"Silva, Ana"`)
}

func TestWriteCSVEmptyRowsStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, "event,community,date,time,kind,role,person\n", buf.String())
}
