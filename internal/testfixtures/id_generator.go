package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields the sequence id-1, id-2, ... so service tests can name
// the people and events they create ahead of time.
type IDGenerator struct {
	mu      sync.Mutex
	counter int
}

// NewIDGenerator returns a generator starting at id-1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// NextFunc adapts the generator for injection as an id function.
func (g *IDGenerator) NextFunc() func() string {
	return g.Next
}
