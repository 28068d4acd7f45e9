// Package notify implements the notification center's client-side cache: a
// process-wide store with explicit schema versioning, versioned migration
// steps, and a pub/sub channel for change notification across consumers.
package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvidela/monedero/internal/model"
)

// SchemaVersion is the current on-disk format version.
const SchemaVersion = 2

// Item is one stored notification.
type Item struct {
	CreatedAt  time.Time       `json:"created_at"`
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Kind       model.EventKind `json:"kind"`
	ActionLink string          `json:"action_link,omitempty"`
	Read       bool            `json:"read"`
}

type fileFormat struct {
	Items         []Item `json:"items"`
	SchemaVersion int    `json:"schema_version"`
}

// Store is the process-wide notification store. Init must be called before
// Read or Write.
type Store struct {
	path  string
	items []Item
	subs  []chan []Item
	mu    sync.Mutex
	ready bool
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init loads the store from disk, running any pending schema migrations up
// to the requested version. A missing file initializes empty.
func (s *Store) Init(schemaVersion int) error {
	if schemaVersion > SchemaVersion {
		return fmt.Errorf("unknown notification schema version %d (latest is %d)", schemaVersion, SchemaVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.items = nil
		s.ready = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read notification cache: %w", err)
	}

	migrated, err := migrate(data, schemaVersion)
	if err != nil {
		return err
	}

	s.items = migrated.Items
	s.ready = true
	return nil
}

// Read returns a copy of the stored notifications, newest-first.
func (s *Store) Read() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Write replaces the stored notifications, persists them, and publishes the
// new list to every subscriber.
func (s *Store) Write(items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return fmt.Errorf("notification store not initialized")
	}

	data, err := json.MarshalIndent(fileFormat{SchemaVersion: SchemaVersion, Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notification cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create notification cache directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write notification cache: %w", err)
	}

	s.items = make([]Item, len(items))
	copy(s.items, items)

	for _, sub := range s.subs {
		snapshot := make([]Item, len(items))
		copy(snapshot, items)
		select {
		case sub <- snapshot:
		default:
			// Slow subscriber; it will catch up on the next write.
		}
	}
	return nil
}

// Subscribe returns a channel receiving the full item list after every
// successful Write.
func (s *Store) Subscribe() <-chan []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []Item, 1)
	s.subs = append(s.subs, ch)
	return ch
}
