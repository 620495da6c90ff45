package memory

import (
	"context"
	"sort"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/registers/history"
)

// History is an in-memory history.Repository.
type History struct {
	t *table[*history.Entry]
}

var _ history.Repository = (*History)(nil)

// NewHistory creates an empty History register.
func NewHistory() *History {
	return &History{t: newTable("History", clonePtr[history.Entry])}
}

func (r *History) snapshot() func() { return r.t.snapshot() }

// All returns every entry in insertion-time order.
func (r *History) All() []*history.Entry {
	entries := r.t.filter(nil)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ChangedAt.Before(entries[j].ChangedAt) })
	return entries
}

// ForProduct returns the entries of one product in insertion-time order.
func (r *History) ForProduct(productID id.ID) []*history.Entry {
	var out []*history.Entry
	for _, e := range r.All() {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out
}

func (r *History) Insert(ctx context.Context, entry *history.Entry) error {
	if r.t.exists(entry.ID) {
		return apperror.NewImmutableRecord("History", entry.ID.String())
	}
	return r.t.insert(entry.ID, entry)
}

func (r *History) GetByID(ctx context.Context, entryID id.ID) (*history.Entry, error) {
	return r.t.get(entryID)
}

func (r *History) List(ctx context.Context, f history.Filter) ([]*history.Entry, error) {
	entries := r.t.filter(func(e *history.Entry) bool {
		return (f.BranchID == nil || e.BranchID == *f.BranchID) &&
			(f.ProductID == nil || e.ProductID == *f.ProductID) &&
			(f.From == nil || !e.ChangedAt.Before(*f.From)) &&
			(f.To == nil || !e.ChangedAt.After(*f.To))
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ChangedAt.After(entries[j].ChangedAt) })
	return page(entries, f.Limit, f.Offset), nil
}
