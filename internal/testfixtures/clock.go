package testfixtures

import (
	"sync"
	"time"
)

// Clock is a controllable time source pinned to ReferenceTime, so fairness
// and view windows computed in tests never drift between runs.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock starting at ReferenceTime.
func NewClock() *Clock {
	return &Clock{current: ReferenceTime()}
}

// Now returns the instant the clock currently tracks.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward and returns the updated instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// NowFunc adapts the clock for injection as a now function.
func (c *Clock) NowFunc() func() time.Time {
	return c.Now
}
