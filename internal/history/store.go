// Package history keeps a capped, newest-first record of answered queries,
// persisted as a JSON file so a session survives process restarts.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/log"
)

// Capacity bounds the number of retained items. Appending beyond it evicts
// the oldest entries.
const Capacity = 50

// Item is one answered query.
type Item struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	Response  string         `json:"response"`
	Timestamp int64          `json:"timestamp"`
	Chart     *chart.Payload `json:"chart,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

// Store is a mutex-guarded in-memory list backed by a JSON file. Writes go
// through a temp file and rename so a crash mid-write never corrupts the
// existing history, and a flock serializes writers across processes sharing
// the same path.
type Store struct {
	mu     sync.Mutex
	items  []Item
	path   string
	lock   *flock.Flock
	logger log.Logger
}

// NewStore opens the history file at path, loading whatever it holds.
// A missing, unreadable, or corrupt file yields an empty store rather than
// an error: history is a convenience, not a source of truth.
func NewStore(path string, logger log.Logger) *Store {
	s := &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("history file unreadable, starting empty",
				"path", s.path, "error", err)
		}
		return
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("history file corrupt, starting empty",
			"path", s.path, "error", err)
		return
	}

	if len(items) > Capacity {
		items = items[:Capacity]
	}
	s.items = items
}

// Append records item as the newest entry, evicting the oldest when the
// store is at capacity, and persists the result. A persistence failure is
// logged and returned; the in-memory copy keeps the item either way.
func (s *Store) Append(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]Item{item}, s.items...)
	if len(s.items) > Capacity {
		s.items = s.items[:Capacity]
	}
	if err := s.persist(); err != nil {
		s.logger.Warn("persisting history", "path", s.path, "error", err)
		return err
	}
	return nil
}

// Clear removes every item and persists the empty list.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.persist(); err != nil {
		s.logger.Warn("persisting history", "path", s.path, "error", err)
		return err
	}
	return nil
}

// Items returns a copy of the stored items, newest first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Search returns items whose query contains substr, case-insensitively,
// newest first. An empty substring matches everything.
func (s *Store) Search(substr string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if substr == "" {
		return slices.Clone(s.items)
	}

	needle := strings.ToLower(substr)
	var matched []Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Query), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// persist writes the current items atomically. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if s.items == nil {
		data = []byte("[]")
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking history file: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("releasing history lock", "error", err)
		}
	}()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp history file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}
