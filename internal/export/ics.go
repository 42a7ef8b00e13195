package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// RoleAssignment is one filled or open slot listed in an event description.
type RoleAssignment struct {
	Role       string
	PersonName string
}

// CalendarEntry is one event rendered as a VEVENT.
type CalendarEntry struct {
	UID         string
	EventKey    string
	Community   string
	Kind        string
	Start       time.Time
	End         time.Time
	Assignments []RoleAssignment
}

const (
	icsProdID   = "-//liturgy-roster//roster//EN"
	icsDateTime = "20060102T150405"
)

// WriteICS renders the entries as an iCalendar document. Times are emitted
// as floating local times with a TZID parameter, so one VTIMEZONE-free
// calendar stays valid across DST boundaries in the configured zone.
func WriteICS(w io.Writer, entries []CalendarEntry, tzid string) error {
	sorted := append([]CalendarEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].EventKey < sorted[j].EventKey
	})

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+icsProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	for _, entry := range sorted {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+escapeText(entry.UID))
		writeLine(&b, fmt.Sprintf("DTSTAMP:%s", entry.Start.UTC().Format(icsDateTime)+"Z"))
		writeLine(&b, fmt.Sprintf("DTSTART;TZID=%s:%s", tzid, entry.Start.Format(icsDateTime)))
		writeLine(&b, fmt.Sprintf("DTEND;TZID=%s:%s", tzid, entry.End.Format(icsDateTime)))
		writeLine(&b, "SUMMARY:"+escapeText(summary(entry)))
		if description := description(entry); description != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(description))
		}
		writeLine(&b, "END:VEVENT")
	}
	writeLine(&b, "END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}

func summary(entry CalendarEntry) string {
	if entry.Kind != "" && entry.Kind != "REG" {
		return fmt.Sprintf("%s (%s)", entry.Community, entry.Kind)
	}
	return entry.Community
}

func description(entry CalendarEntry) string {
	if len(entry.Assignments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entry.Assignments))
	for _, a := range entry.Assignments {
		name := a.PersonName
		if name == "" {
			name = "?"
		}
		parts = append(parts, a.Role+": "+name)
	}
	return strings.Join(parts, "\n")
}

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(value)
}

// writeLine emits a content line folded at 75 octets per RFC 5545, with
// CRLF endings and a single space on each continuation.
func writeLine(b *strings.Builder, line string) {
	const limit = 75
	data := []byte(line)
	for len(data) > limit {
		cut := limit
		// Never split a UTF-8 sequence.
		for cut > 0 && data[cut]&0xC0 == 0x80 {
			cut--
		}
		b.Write(data[:cut])
		b.WriteString("\r\n ")
		data = data[cut:]
	}
	b.Write(data)
	b.WriteString("\r\n")
}
