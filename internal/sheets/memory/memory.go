package memory

import (
	"context"
	"fmt"
	"sync"

	"moneyman/internal/sheets"
)

// Store keeps journal rows in memory. Used in tests and when no
// spreadsheet is configured but rows still need to be inspected.
type Store struct {
	mu    sync.Mutex
	items []sheets.Entry
}

var _ sheets.JournalWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e sheets.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Entries returns a copy of the rows appended so far.
func (s *Store) Entries() []sheets.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Entry(nil), s.items...)
}
