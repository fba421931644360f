package store

import (
	"sort"
	"sync"
)

type collection map[string]any

// ReadStore holds projected records in memory, grouped by collection.
// The order projection writes to it and the order query handler reads it.
type ReadStore struct {
	mu          sync.RWMutex
	collections map[string]collection
}

func NewReadStore() *ReadStore {
	return &ReadStore{collections: make(map[string]collection)}
}

func (rs *ReadStore) Set(name, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c, ok := rs.collections[name]
	if !ok {
		c = make(collection)
		rs.collections[name] = c
	}
	c[id] = data
}

func (rs *ReadStore) Get(name, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	data, ok := rs.collections[name][id]
	return data, ok
}

// GetAll returns the records of a collection sorted by id. Unknown
// collections yield an empty slice.
func (rs *ReadStore) GetAll(name string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	c := rs.collections[name]
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]any, len(ids))
	for i, id := range ids {
		records[i] = c[id]
	}
	return records
}

func (rs *ReadStore) Delete(name, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.collections[name], id)
}

// Update swaps the record at id for apply(current) under the write lock.
// It reports false, without calling apply, when there is no such record.
func (rs *ReadStore) Update(name, id string, apply func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, ok := rs.collections[name][id]
	if !ok {
		return false
	}
	rs.collections[name][id] = apply(current)
	return true
}
