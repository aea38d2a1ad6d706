// Package store persists named record collections as pretty-printed JSON
// files. Each collection is guarded by its own reader/writer lock held across
// the whole read-modify-write span, and every write lands via a temp file and
// an atomic rename, so readers never observe a torn or half-applied file.
package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kovazenko1977/sanatory/internal/domain"
)

// Store owns the data directory and one lock per collection file.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// Open prepares the data directory and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrIO, err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}, nil
}

// Dir returns the data directory the store was opened with.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) lockFor(file string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[file]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[file] = l
	}
	return l
}

// Meta carries the fields every stored record shares. Model structs embed it
// to satisfy Record.
type Meta struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID returns the assigned identifier, zero before insertion.
func (m *Meta) RecordID() int { return m.ID }

func (m *Meta) stampNew(id int, now time.Time) {
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
}

func (m *Meta) touch(now time.Time) {
	m.UpdatedAt = now
}

// Record is satisfied by any struct pointer embedding Meta.
type Record interface {
	RecordID() int
	stampNew(id int, now time.Time)
	touch(now time.Time)
}
