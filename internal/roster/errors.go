package roster

import "errors"

var (
	// ErrInvalidRole is returned when a role code cannot be resolved.
	ErrInvalidRole = errors.New("roster: invalid role")
	// ErrInvalidCommunity is returned when a community code cannot be resolved.
	ErrInvalidCommunity = errors.New("roster: invalid community")
	// ErrInvalidPeriod is returned for malformed period expressions.
	ErrInvalidPeriod = errors.New("roster: invalid period")
	// ErrInvalidInterval is returned when an interval ends before it starts.
	ErrInvalidInterval = errors.New("roster: interval end must be after start")
	// ErrInvalidQuantity is returned for non-positive slot quantities.
	ErrInvalidQuantity = errors.New("roster: quantity must be positive")
	// ErrNoHistory is returned when undo is requested with an empty history.
	ErrNoHistory = errors.New("roster: nothing to undo")
)
