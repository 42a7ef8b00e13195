package engine

import (
	"errors"
	"fmt"
)

// Reason identifies which hard eligibility filter failed.
type Reason string

const (
	ReasonCapability   Reason = "capability"
	ReasonInactive     Reason = "inactive"
	ReasonPool         Reason = "pool"
	ReasonAvailability Reason = "availability"
	ReasonConflict     Reason = "conflict"
	ReasonDoubleBooked Reason = "double-booked"
)

// ErrSlotNotFound is returned when an operation targets a slot with no
// assignment.
var ErrSlotNotFound = errors.New("engine: slot not found")

// EligibilityError reports a rejected mutation with the failing reason.
type EligibilityError struct {
	PersonID string
	EventKey string
	Role     string
	Reason   Reason
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("engine: person %s ineligible for %s on %s: %s", e.PersonID, e.Role, e.EventKey, e.Reason)
}
