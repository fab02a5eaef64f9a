// Package recent persists the recent-documents list and per-document
// reading progress as a small JSON file.
package recent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yuanying/yomu/internal/reader"
)

// MaxEntries bounds the recent-documents list; the oldest entry is
// evicted on overflow.
const MaxEntries = 10

// Entry is one recent-document record.
type Entry struct {
	Key         string    `json:"key"`
	DisplayName string    `json:"displayName"`
	LastOpened  time.Time `json:"lastOpened"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	Mode        string    `json:"mode"`
}

// ReadingMode parses the persisted mode name, falling back to
// single-page for records written by other versions.
func (e Entry) ReadingMode() reader.Mode {
	m, err := reader.ParseMode(e.Mode)
	if err != nil {
		return reader.SinglePage
	}
	return m
}

// Store is a JSON-file-backed recent-documents store. Safe for
// concurrent use within one process; the file is rewritten whole on
// every mutation, which is fine at ten entries.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store persisting to the given file path. The file
// is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional location of the store file
// under the user's configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "yomu", "recent.json"), nil
}

// Get returns the entry for key, if present.
func (s *Store) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// Upsert inserts or replaces the entry for e.Key and evicts the oldest
// entries beyond MaxEntries.
func (s *Store) Upsert(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, existing := range entries {
		if existing.Key != e.Key {
			kept = append(kept, existing)
		}
	}
	entries = append(kept, e)

	sortByLastOpened(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return s.save(entries)
}

// Remove deletes the entry for key; removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

// List returns all entries, most recently opened first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByLastOpened(entries)
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(nil)
}

// Lookup implements reader.ProgressStore.
func (s *Store) Lookup(key string) (reader.Progress, bool) {
	e, ok, err := s.Get(key)
	if err != nil {
		slog.Warn("failed to read recent-documents store", "path", s.path, "error", err)
		return reader.Progress{}, false
	}
	if !ok {
		return reader.Progress{}, false
	}
	return reader.Progress{Page: e.CurrentPage, Mode: e.ReadingMode()}, true
}

// Record implements reader.ProgressStore.
func (s *Store) Record(key, name string, p reader.Progress, totalPages int) {
	e := Entry{
		Key:         key,
		DisplayName: name,
		LastOpened:  time.Now(),
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		Mode:        p.Mode.String(),
	}
	if err := s.Upsert(e); err != nil {
		slog.Warn("failed to save reading progress", "path", s.path, "error", err)
	}
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recent entries: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func sortByLastOpened(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastOpened.After(entries[j].LastOpened)
	})
}
