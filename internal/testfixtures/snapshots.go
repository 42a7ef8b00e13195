package testfixtures

import (
	"sync"

	"github.com/example/liturgy-roster/internal/roster"
)

// MemorySnapshots is an in-memory snapshot backend for service tests.
type MemorySnapshots struct {
	mu      sync.Mutex
	state   *roster.State
	SaveErr error
	LoadErr error
}

// NewMemorySnapshots returns an empty in-memory snapshot store.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{}
}

// Save stores a deep copy of the state.
func (m *MemorySnapshots) Save(state *roster.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = state.Clone()
	return nil
}

// Load returns a deep copy of the stored state, or an empty state when
// nothing was saved yet.
func (m *MemorySnapshots) Load() (*roster.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.state == nil {
		return roster.NewState(), nil
	}
	return m.state.Clone(), nil
}
