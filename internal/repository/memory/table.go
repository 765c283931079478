// Package memory provides an in-memory implementation of the entity store,
// used for tests and ephemeral environments.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"fitstudio/server/internal/repository"
)

// Table is a map-backed repository.Table. Rows go in and come out through
// clone, so callers never alias stored state, pointer and map fields included.
type Table[T any, P repository.Record[T]] struct {
	mu     sync.RWMutex
	lastID int64
	rows   map[int64]T
	now    func() time.Time
}

// NewTable creates an empty table. now stamps server-managed defaults.
func NewTable[T any, P repository.Record[T]](now func() time.Time) *Table[T, P] {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Table[T, P]{rows: make(map[int64]T), now: now}
}

func (t *Table[T, P]) Insert(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastID++
	P(record).SetID(t.lastID)
	if d, ok := any(record).(repository.Defaulter); ok {
		d.ApplyDefaults(t.now())
	}
	t.rows[t.lastID] = clone(record)
	return nil
}

func (t *Table[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clone(&row)
	return &out, nil
}

func (t *Table[T, P]) Update(ctx context.Context, id int64, mutate func(*T)) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row := clone(&stored)
	mutate(&row)
	P(&row).SetID(id)
	t.rows[id] = clone(&row)
	return &row, nil
}

func (t *Table[T, P]) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

func (t *Table[T, P]) Scan(ctx context.Context, keep func(*T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, stored := range t.rows {
		row := clone(&stored)
		if keep == nil || keep(&row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()

	// Map iteration is random; id order keeps results stable between calls.
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(P(&a).GetID(), P(&b).GetID())
	})
	return out, nil
}

// clone copies row deeply when its type knows how, and by value otherwise.
func clone[T any](row *T) T {
	if c, ok := any(row).(repository.Cloner[T]); ok {
		return *c.Clone()
	}
	return *row
}
