package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/liturgy-roster/internal/roster"
)

// FileStore keeps the snapshot as a single JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the state atomically: the document lands in a temp file in the
// target directory and is renamed over the destination.
func (f *FileStore) Save(state *roster.State) error {
	data, err := json.MarshalIndent(encodeState(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".roster-*.json")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file yields an empty state, so a fresh
// deployment starts clean without a seed step.
func (f *FileStore) Load() (*roster.State, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return roster.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("snapshot version %d is not supported", doc.Version)
	}
	return decodeState(doc), nil
}
