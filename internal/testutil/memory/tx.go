// Package memory provides in-memory repositories and a transaction manager
// for service tests. A failed transaction restores every registered store.
package memory

import (
	"context"
	"sort"
	"sync"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
)

// Snapshotter is a store the TxManager can roll back.
type Snapshotter interface {
	snapshot() (restore func())
}

// TxManager runs fn directly and, when it fails, restores the stores to
// the state they had when the outermost transaction began.
type TxManager struct {
	mu     sync.Mutex
	stores []Snapshotter
	depth  int

	Commits   int
	Rollbacks int
}

// NewTxManager creates a TxManager over stores.
func NewTxManager(stores ...Snapshotter) *TxManager {
	return &TxManager{stores: stores}
}

// Track adds stores created after the manager.
func (m *TxManager) Track(stores ...Snapshotter) {
	m.stores = append(m.stores, stores...)
}

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	outer := m.depth == 0
	var restores []func()
	if outer {
		for _, s := range m.stores {
			restores = append(restores, s.snapshot())
		}
	}
	m.depth++
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth--
	if !outer {
		return err
	}
	if err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// table keeps copies of rows keyed by id.
type table[T any] struct {
	mu     sync.Mutex
	entity string
	rows   map[id.ID]T
	clone  func(T) T
}

func newTable[T any](entity string, clone func(T) T) *table[T] {
	return &table[T]{entity: entity, rows: make(map[id.ID]T), clone: clone}
}

func (t *table[T]) snapshot() func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	saved := make(map[id.ID]T, len(t.rows))
	for k, v := range t.rows {
		saved[k] = t.clone(v)
	}
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.rows = saved
	}
}

func (t *table[T]) insert(key id.ID, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; ok {
		return apperror.NewDuplicate(t.entity, "id", key.String())
	}
	t.rows[key] = t.clone(row)
	return nil
}

func (t *table[T]) get(key id.ID) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(t.entity, key.String())
	}
	return t.clone(row), nil
}

// modify runs fn on the stored row itself.
func (t *table[T]) modify(key id.ID, fn func(T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[key]
	if !ok {
		return apperror.NewNotFound(t.entity, key.String())
	}
	return fn(row)
}

func (t *table[T]) delete(key id.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		return apperror.NewNotFound(t.entity, key.String())
	}
	delete(t.rows, key)
	return nil
}

func (t *table[T]) exists(key id.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[key]
	return ok
}

// filter returns copies of the matching rows ordered by id (UUIDv7 ids
// sort by creation time).
func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]id.ID, 0, len(t.rows))
	for k, row := range t.rows {
		if match == nil || match(row) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.clone(t.rows[k]))
	}
	return out
}

func (t *table[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func inIDs(ids []id.ID, v id.ID) bool {
	if len(ids) == 0 {
		return true
	}
	for _, x := range ids {
		if x == v {
			return true
		}
	}
	return false
}
