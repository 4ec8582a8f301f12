package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store. It behaves like a spreadsheet: cleared rows keep their position.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[Collection][]Row
	failure     error
	writes      int
}

// NewMemoryStore builds an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[Collection][]Row{}}
}

// SetFailure makes every following operation fail as if the transport was broken. Passing nil heals the store.
func (s *MemoryStore) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

// Writes returns the number of successful write operations
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Seed replaces the content of a collection
func (s *MemoryStore) Seed(collection Collection, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = copyRows(rows)
}

// ReadRange returns a copy of all rows of the collection
func (s *MemoryStore) ReadRange(_ context.Context, collection Collection) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failure != nil {
		return nil, unavailable(s.failure, "reading %s", collection)
	}

	return copyRows(s.collections[collection]), nil
}

// Append adds a row to the collection
func (s *MemoryStore) Append(_ context.Context, collection Collection, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return unavailable(s.failure, "appending to %s", collection)
	}

	s.collections[collection] = append(s.collections[collection], append(Row{}, row...))
	s.writes++
	return nil
}

// UpdateCell writes a single cell, the row grows if it is shorter than column
func (s *MemoryStore) UpdateCell(_ context.Context, collection Collection, position int, column int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return unavailable(s.failure, "updating %s", collection)
	}

	index, err := s.index(collection, position)
	if err != nil {
		return err
	}

	row := s.collections[collection][index]
	for len(row) <= column {
		row = append(row, "")
	}
	row[column] = value
	s.collections[collection][index] = row
	s.writes++
	return nil
}

// ClearRow blanks a row
func (s *MemoryStore) ClearRow(_ context.Context, collection Collection, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return unavailable(s.failure, "clearing %s", collection)
	}

	index, err := s.index(collection, position)
	if err != nil {
		return err
	}

	s.collections[collection][index] = Row{}
	s.writes++
	return nil
}

func (s *MemoryStore) index(collection Collection, position int) (int, error) {
	index := position - firstDataPosition
	if index < 0 || index >= len(s.collections[collection]) {
		return 0, fmt.Errorf("%s position %d: %w", collection, position, ErrNotFound)
	}
	return index, nil
}

func copyRows(rows []Row) []Row {
	copied := make([]Row, len(rows))
	for i, row := range rows {
		copied[i] = append(Row{}, row...)
	}
	return copied
}
