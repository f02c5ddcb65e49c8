// Package docstore is a small JSON document collection keyed by
// auto-incrementing integer ids. The whole file is read for every operation
// and rewritten for every mutation.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"moneyman/internal/core"
)

// Entry is a stored document with its id.
type Entry[T any] struct {
	ID  int64
	Doc T
}

type fileLayout[T any] struct {
	LastID  int64       `json:"last_id"`
	Records map[int64]T `json:"records"`
}

// Collection holds documents of type T. With an empty path it lives in
// memory only. All access is serialized by a mutex.
type Collection[T any] struct {
	mu   sync.Mutex
	path string
	mem  fileLayout[T]
}

// Open returns a collection persisted at path. The file is created on first
// write.
func Open[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// NewMemory returns a collection that is never persisted.
func NewMemory[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Path is empty for memory collections.
func (c *Collection[T]) Path() string { return c.path }

func (c *Collection[T]) load() (fileLayout[T], error) {
	if c.path == "" {
		out := fileLayout[T]{LastID: c.mem.LastID, Records: make(map[int64]T, len(c.mem.Records))}
		for k, v := range c.mem.Records {
			out.Records[k] = v
		}
		return out, nil
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileLayout[T]{Records: map[int64]T{}}, nil
	}
	if err != nil {
		return fileLayout[T]{}, fmt.Errorf("%w: read %s: %w", core.ErrStorage, c.path, err)
	}

	var out fileLayout[T]
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fileLayout[T]{}, fmt.Errorf("%w: decode %s: %w", core.ErrStorage, c.path, err)
		}
	}
	if out.Records == nil {
		out.Records = map[int64]T{}
	}
	for id := range out.Records {
		out.LastID = max(out.LastID, id)
	}
	return out, nil
}

func (c *Collection[T]) save(layout fileLayout[T]) error {
	if c.path == "" {
		c.mem = layout
		return nil
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", core.ErrStorage, c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", core.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", core.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", core.ErrStorage, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", core.ErrStorage, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", core.ErrStorage, c.path, err)
	}
	return nil
}

// All returns every document ordered by id.
func (c *Collection[T]) All() ([]Entry[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, err := c.load()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(layout.Records))
	for id := range layout.Records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Entry[T], len(ids))
	for i, id := range ids {
		out[i] = Entry[T]{ID: id, Doc: layout.Records[id]}
	}
	return out, nil
}

// Search returns the documents accepted by match, ordered by id.
func (c *Collection[T]) Search(match func(T) bool) ([]Entry[T], error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if match(e.Doc) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the document with the given id, if any.
func (c *Collection[T]) Get(id int64) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	layout, err := c.load()
	if err != nil {
		return zero, false, err
	}
	doc, ok := layout.Records[id]
	return doc, ok, nil
}

func (c *Collection[T]) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, err := c.load()
	if err != nil {
		return 0, err
	}
	return len(layout.Records), nil
}

// Insert stores docs under fresh ids and returns them in order. Ids are
// never reused, even after the highest one is removed.
func (c *Collection[T]) Insert(docs ...T) ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, err := c.load()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(docs))
	for i, doc := range docs {
		layout.LastID++
		layout.Records[layout.LastID] = doc
		ids[i] = layout.LastID
	}
	if err := c.save(layout); err != nil {
		return nil, err
	}
	return ids, nil
}

// Replace overwrites the document at id. It reports false, and writes
// nothing, when id is absent.
func (c *Collection[T]) Replace(id int64, doc T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, err := c.load()
	if err != nil {
		return false, err
	}
	if _, ok := layout.Records[id]; !ok {
		return false, nil
	}
	layout.Records[id] = doc
	return true, c.save(layout)
}

// Remove deletes the document at id. Removing an absent id is not an error.
func (c *Collection[T]) Remove(id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, err := c.load()
	if err != nil {
		return false, err
	}
	if _, ok := layout.Records[id]; !ok {
		return false, nil
	}
	delete(layout.Records, id)
	return true, c.save(layout)
}
