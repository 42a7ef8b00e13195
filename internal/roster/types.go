package roster

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event kinds recognized by the scoring engine.
const (
	KindRegular = "REG"
	KindSolemn  = "SOLENE"
	KindSpecial = "ESP"
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Person is a roster member able to serve one or more roles.
type Person struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Community string   `json:"community"`
	Roles     []string `json:"roles"`
	Morning   bool     `json:"morning"`
	Active    bool     `json:"active"`
	Locale    string   `json:"locale,omitempty"`
}

// HasRole reports whether the person is capable of the given role.
func (p Person) HasRole(role string) bool {
	for _, code := range p.Roles {
		if code == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	out := p
	out.Roles = append([]string(nil), p.Roles...)
	return out
}

// AvailabilityBlock marks a half-open interval [Start, End) in which the
// person must not be assigned.
type AvailabilityBlock struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Note  string    `json:"note,omitempty"`
}

// Validate rejects blocks whose end does not follow their start.
func (b AvailabilityBlock) Validate() error {
	if !b.End.After(b.Start) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether the block intersects [start, end).
func (b AvailabilityBlock) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// Event is a single service needing Quantity role slots filled.
type Event struct {
	ID        string     `json:"id"`
	Community string     `json:"community"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Quantity  int        `json:"quantity"`
	Kind      string     `json:"kind"`
	Pool      []string   `json:"pool,omitempty"`
}

// Key derives the deterministic human-readable identifier: community code,
// ddMMyyyyHHmm stamp, and zero-padded quantity.
func (e Event) Key() string {
	return fmt.Sprintf("%s%s%03d", e.Community, e.Start.Format("020120061504"), e.Quantity)
}

// EffectiveEnd resolves the event end, defaulting to start plus the supplied
// standard duration.
func (e Event) EffectiveEnd(defaultDuration time.Duration) time.Time {
	if e.End != nil {
		return *e.End
	}
	return e.Start.Add(defaultDuration)
}

// InPool reports whether the person may serve this event. An empty pool
// admits everyone.
func (e Event) InPool(personID string) bool {
	if len(e.Pool) == 0 {
		return true
	}
	for _, id := range e.Pool {
		if id == personID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.End != nil {
		end := *e.End
		out.End = &end
	}
	out.Pool = append([]string(nil), e.Pool...)
	return out
}

// Assignment ties one event role slot to one person.
type Assignment struct {
	EventID  string `json:"event_id"`
	Role     string `json:"role"`
	PersonID string `json:"person_id"`
}

// Series links a base event to the events generated from it, so pool changes
// and rebasing can be applied to the whole family.
type Series struct {
	ID          string   `json:"id"`
	BaseEventID string   `json:"base_event_id"`
	EventIDs    []string `json:"event_ids,omitempty"`
	Kind        string   `json:"kind"`
	Pool        []string `json:"pool,omitempty"`
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	out := s
	out.EventIDs = append([]string(nil), s.EventIDs...)
	out.Pool = append([]string(nil), s.Pool...)
	return out
}

// Recurrence stamps out events from a base start time and a rule string
// (see the recurrence package for the grammar).
type Recurrence struct {
	ID        string    `json:"id"`
	Community string    `json:"community"`
	BaseStart time.Time `json:"base_start"`
	Rule      string    `json:"rule"`
	Quantity  int       `json:"quantity"`
	Kind      string    `json:"kind"`
	Pool      []string  `json:"pool,omitempty"`
}

// Clone returns a deep copy of the recurrence.
func (r Recurrence) Clone() Recurrence {
	out := r
	out.Pool = append([]string(nil), r.Pool...)
	return out
}
