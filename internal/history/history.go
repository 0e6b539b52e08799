// Package history keeps the most recent generations for each scope, newest
// first, as a JSON array under a fixed storage key.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cristianadrielbraun/qrstudio/internal/storage"
)

const (
	// Key is the storage key the history array lives under.
	Key = "qr_history_v1"
	// Limit is how many entries a scope keeps.
	Limit = 5
)

// ErrNotSaved wraps any failure to write the history back. The generation
// itself succeeded; only the history update was lost.
var ErrNotSaved = errors.New("history not saved")

// Options is the style a QR code was generated with.
type Options struct {
	DotColor        string `json:"colorDot"`
	BackgroundColor string `json:"colorBg"`
	Size            int    `json:"size"`
	Level           string `json:"correctionLevel"`
}

// Entry is one past generation.
type Entry struct {
	ImageData string  `json:"dataUrl"`
	Text      string  `json:"text"`
	Options   Options `json:"opts"`
}

// Store reads and writes history entries through a storage.KV.
type Store struct {
	kv  storage.KV
	log *slog.Logger
	// mu serialises Record's read-modify-write so concurrent generations in
	// one process never drop each other's entry.
	mu sync.Mutex
}

// New returns a Store on top of kv.
func New(kv storage.KV, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{kv: kv, log: log}
}

// List returns the entries of scope, newest first. Missing, unreadable or
// corrupt data yields an empty list.
func (s *Store) List(ctx context.Context, scope string) []Entry {
	entries, err := s.load(ctx, scope)
	if err != nil {
		s.log.Warn("history read failed", "scope", scope, "error", err)
		return []Entry{}
	}
	return entries
}

// load reads scope's list. Backend errors are returned; missing or corrupt
// data reads as empty.
func (s *Store) load(ctx context.Context, scope string) ([]Entry, error) {
	raw, ok, err := s.kv.Get(ctx, scope, Key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("history is corrupt, treating as empty", "scope", scope, "error", err)
		return []Entry{}, nil
	}
	if entries == nil {
		return []Entry{}, nil
	}
	if len(entries) > Limit {
		entries = entries[:Limit]
	}
	return entries, nil
}

// Get returns the entry at index i of scope's list.
func (s *Store) Get(ctx context.Context, scope string, i int) (Entry, bool) {
	entries := s.List(ctx, scope)
	if i < 0 || i >= len(entries) {
		return Entry{}, false
	}
	return entries[i], true
}

// Record prepends e to scope's list, keeps the newest Limit entries and writes
// the list back. It returns the list as it now stands. When the current list
// cannot be read or the new one cannot be written, nothing is stored, the
// error wraps ErrNotSaved and the returned list is the unchanged one.
func (s *Store) Record(ctx context.Context, scope string, e Entry) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, scope)
	if err != nil {
		return []Entry{}, fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	next := make([]Entry, 0, Limit)
	next = append(next, e)
	next = append(next, current...)
	if len(next) > Limit {
		next = next[:Limit]
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return current, fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	if err := s.kv.Set(ctx, scope, Key, string(raw)); err != nil {
		return current, fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return next, nil
}
