package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kovazenko1977/sanatory/internal/domain"
)

// Collection is a typed view over one JSON file. T is the pointer type of a
// model struct embedding Meta, e.g. Collection[*models.Booking].
//
// Every mutation re-reads, modifies and rewrites the entire file; the cost of
// an insert, update or delete is O(collection size). The exclusive lock is
// held across that whole span, so two concurrent mutations of the same
// collection serialize instead of overwriting each other.
type Collection[T Record] struct {
	store *Store
	file  string
	lock  *sync.RWMutex
}

// NewCollection binds a typed collection to a file name under the store's
// data directory.
func NewCollection[T Record](s *Store, file string) *Collection[T] {
	return &Collection[T]{
		store: s,
		file:  file,
		lock:  s.lockFor(file),
	}
}

func (c *Collection[T]) path() string {
	return filepath.Join(c.store.dir, c.file)
}

// load reads and decodes the backing file. A missing file decodes as an
// empty collection. Callers must hold the lock.
func (c *Collection[T]) load() ([]T, error) {
	raw, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrIO, c.file, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrIO, c.file, err)
	}
	return records, nil
}

// flush serializes the records to a temp file in the same directory and
// renames it over the live file. Callers must hold the exclusive lock.
func (c *Collection[T]) flush(records []T) error {
	if records == nil {
		records = []T{}
	}
	return atomicWriteJSON(c.store.dir, c.path(), records)
}

func atomicWriteJSON(dir, path string, v any) error {
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrIO, err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: encode %s: %v", domain.ErrIO, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: close temp file: %v", domain.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", domain.ErrIO, filepath.Base(path), err)
	}
	return nil
}

// All returns every record in file order.
func (c *Collection[T]) All() ([]T, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.load()
}

// Get returns the record with the given id or ErrNotFound.
func (c *Collection[T]) Get(id int) (T, error) {
	var zero T
	records, err := c.All()
	if err != nil {
		return zero, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return zero, fmt.Errorf("%w: %s id %d", domain.ErrNotFound, c.file, id)
}

// Find returns the records matching pred, in file order. The result reflects
// the state at the moment of the read and is not consistent with later
// writes.
func (c *Collection[T]) Find(pred func(T) bool) ([]T, error) {
	records, err := c.All()
	if err != nil {
		return nil, err
	}
	var out []T
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// First returns the first record matching pred.
func (c *Collection[T]) First(pred func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.All()
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if pred(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Insert assigns the next id (max existing + 1), stamps both timestamps and
// appends the record.
func (c *Collection[T]) Insert(rec T) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}
	next := 1
	for _, r := range records {
		if r.RecordID() >= next {
			next = r.RecordID() + 1
		}
	}
	rec.stampNew(next, time.Now().UTC())
	return c.flush(append(records, rec))
}

// Update applies mutate to the record with the given id and rewrites the
// collection. Returns false without writing when the id is absent. An error
// from mutate aborts the update untouched.
func (c *Collection[T]) Update(id int, mutate func(T) error) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	records, err := c.load()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.RecordID() != id {
			continue
		}
		if err := mutate(r); err != nil {
			return false, err
		}
		r.touch(time.Now().UTC())
		return true, c.flush(records)
	}
	return false, nil
}

// Delete removes the record with the given id. Persists only when a removal
// occurred.
func (c *Collection[T]) Delete(id int) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	records, err := c.load()
	if err != nil {
		return false, err
	}
	kept := records[:0]
	removed := false
	for _, r := range records {
		if !removed && r.RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false, nil
	}
	return true, c.flush(kept)
}

// Replace substitutes the stored record with the given id wholesale. The
// replacement takes over the stored id and is restamped as of now. Returns
// false without writing when the id is absent.
func (c *Collection[T]) Replace(id int, rec T) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	records, err := c.load()
	if err != nil {
		return false, err
	}
	for i, r := range records {
		if r.RecordID() != id {
			continue
		}
		rec.stampNew(id, time.Now().UTC())
		records[i] = rec
		return true, c.flush(records)
	}
	return false, nil
}

// ReplaceAll persists the given records as the full collection content.
func (c *Collection[T]) ReplaceAll(records []T) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.flush(records)
}
