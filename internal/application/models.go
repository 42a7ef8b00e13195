package application

import (
	"fmt"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

// PersonInput carries the fields accepted when creating a person.
type PersonInput struct {
	Name      string   `json:"name"`
	Community string   `json:"community"`
	Roles     []string `json:"roles"`
	Morning   bool     `json:"morning"`
	Active    *bool    `json:"active,omitempty"`
	Locale    string   `json:"locale,omitempty"`
}

// PersonUpdate carries a partial person update; nil fields are left as-is.
type PersonUpdate struct {
	Name      *string   `json:"name,omitempty"`
	Community *string   `json:"community,omitempty"`
	Roles     *[]string `json:"roles,omitempty"`
	Morning   *bool     `json:"morning,omitempty"`
	Active    *bool     `json:"active,omitempty"`
	Locale    *string   `json:"locale,omitempty"`
}

// PersonDetail is a person together with their availability blocks.
type PersonDetail struct {
	roster.Person
	Blocks []roster.AvailabilityBlock `json:"blocks,omitempty"`
}

// EventInput carries the fields accepted when creating an event. Start uses
// either RFC 3339 or the local form 2006-01-02T15:04; an omitted duration
// falls back to the configured default.
type EventInput struct {
	Community       string   `json:"community"`
	Start           string   `json:"start"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Quantity        int      `json:"quantity"`
	Kind            string   `json:"kind,omitempty"`
	Pool            []string `json:"pool,omitempty"`
}

// EventUpdate carries a partial event update; nil fields are left as-is.
type EventUpdate struct {
	Community       *string `json:"community,omitempty"`
	Start           *string `json:"start,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Quantity        *int    `json:"quantity,omitempty"`
	Kind            *string `json:"kind,omitempty"`
}

// RecurrenceInput carries the fields accepted when creating a recurrence.
type RecurrenceInput struct {
	Community string   `json:"community"`
	BaseStart string   `json:"base_start"`
	Rule      string   `json:"rule"`
	Quantity  int      `json:"quantity"`
	Kind      string   `json:"kind,omitempty"`
	Pool      []string `json:"pool,omitempty"`
}

// ScheduleRow is one slot of the rendered schedule. Unfilled slots carry an
// empty person id and name.
type ScheduleRow struct {
	EventID    string    `json:"event_id"`
	EventKey   string    `json:"event_key"`
	Community  string    `json:"community"`
	Start      time.Time `json:"start"`
	Kind       string    `json:"kind"`
	Role       string    `json:"role"`
	PersonID   string    `json:"person_id,omitempty"`
	PersonName string    `json:"person_name,omitempty"`
}

// FreeSlot names one unfilled slot.
type FreeSlot struct {
	EventID   string    `json:"event_id"`
	EventKey  string    `json:"event_key"`
	Community string    `json:"community"`
	Start     time.Time `json:"start"`
	Role      string    `json:"role"`
}

// Suggestion is one ranked candidate for a slot.
type Suggestion struct {
	PersonID  string  `json:"person_id"`
	Name      string  `json:"name"`
	Community string  `json:"community"`
	Score     float64 `json:"score"`
}

// startLayouts are the accepted event start formats, tried in order.
var startLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func (s *RosterService) parseStart(value string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, value, s.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("start %q must be RFC 3339 or YYYY-MM-DDTHH:MM", value)
}
