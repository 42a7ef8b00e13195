// Package export renders a schedule into interchange formats: CSV for
// spreadsheets and iCalendar for calendar subscriptions.
package export

import (
	"encoding/csv"
	"io"
	"time"
)

// Row is one schedule slot flattened for CSV output.
type Row struct {
	EventKey   string
	Community  string
	Start      time.Time
	Kind       string
	Role       string
	PersonName string
}

var csvHeader = []string{"event", "community", "date", "time", "kind", "role", "person"}

// WriteCSV writes the rows with a header line. Unfilled slots leave the
// person column empty.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.EventKey,
			row.Community,
			row.Start.Format("2006-01-02"),
			row.Start.Format("15:04"),
			row.Kind,
			row.Role,
			row.PersonName,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
