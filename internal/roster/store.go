package roster

import (
	"sync"
	"time"
)

// historyLimit caps the undo stack; the oldest snapshot is dropped beyond it.
const historyLimit = 64

// HistoryEntry records one committed mutating operation.
type HistoryEntry struct {
	Label     string
	Timestamp time.Time
	snapshot  *State
}

// Store owns the roster state under single-writer, multiple-reader
// semantics. Every mutating operation runs start-to-finish under the write
// lock; on success a pre-operation snapshot is pushed onto the undo stack,
// on failure the state is restored untouched.
type Store struct {
	mu      sync.RWMutex
	state   *State
	history []HistoryEntry
	now     func() time.Time
}

// NewStore returns an empty store. The now function stamps history entries;
// nil defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{state: NewState(), now: now}
}

// Mutate runs fn against the live state under the write lock. When fn
// returns an error the pre-operation snapshot is restored and no history is
// recorded, so a failed operation leaves the store unchanged.
func (s *Store) Mutate(label string, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.Clone()
	if err := fn(s.state); err != nil {
		s.state = snapshot
		return err
	}
	s.history = append(s.history, HistoryEntry{Label: label, Timestamp: s.now(), snapshot: snapshot})
	if len(s.history) > historyLimit {
		s.history = s.history[1:]
	}
	return nil
}

// View runs fn against a read lock. fn must not retain references to state
// internals past its return.
func (s *Store) View(fn func(*State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Undo pops the most recent history entry and restores its snapshot,
// returning the label of the reverted operation.
func (s *Store) Undo() (HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return HistoryEntry{}, ErrNoHistory
	}
	entry := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.state = entry.snapshot.Clone()
	return entry, nil
}

// HistoryLen reports the current undo depth.
func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// ResetAll wipes the state and clears the undo history.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
	s.history = nil
}

// Replace swaps in a freshly loaded state (snapshot restore). The undo
// history is cleared: entries recorded against the previous state no longer
// apply.
func (s *Store) Replace(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		state = NewState()
	}
	s.state = state
	s.history = nil
}

// Snapshot returns a deep copy of the current state for persistence.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
