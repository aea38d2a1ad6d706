package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kovazenko1977/sanatory/internal/domain"
)

// Document is a typed view over a singleton JSON file, for state that is one
// object rather than a record list (settings). Same locking and atomic-write
// contract as Collection.
type Document[T any] struct {
	store *Store
	file  string
	lock  *sync.RWMutex
}

// NewDocument binds a typed document to a file name under the store's data
// directory.
func NewDocument[T any](s *Store, file string) *Document[T] {
	return &Document[T]{
		store: s,
		file:  file,
		lock:  s.lockFor(file),
	}
}

func (d *Document[T]) path() string {
	return filepath.Join(d.store.dir, d.file)
}

// Load decodes the document. The bool reports whether the file existed.
func (d *Document[T]) Load() (T, bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	var v T
	raw, err := os.ReadFile(d.path())
	if os.IsNotExist(err) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("%w: read %s: %v", domain.ErrIO, d.file, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("%w: decode %s: %v", domain.ErrIO, d.file, err)
	}
	return v, true, nil
}

// Save atomically replaces the document content.
func (d *Document[T]) Save(v T) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return atomicWriteJSON(d.store.dir, d.path(), v)
}
