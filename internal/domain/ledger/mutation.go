// Package ledger holds the stock-and-money rules of purchase and sale items.
//
// Every rule is a pure function: it reads the product and the item values and
// returns a MutationSet describing the writes. Document services persist the
// item and hand the set to an Applier inside the same transaction, so the
// product quantity, its cost price and the History trail always move together.
package ledger

import (
	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
	"storeledger/internal/domain/registers/history"
)

// StockChange is a relative quantity update of one product.
// Guarded changes must not take the quantity below zero.
type StockChange struct {
	ProductID id.ID
	Delta     decimal.Decimal
	Guarded   bool
}

// CostPriceChange overwrites the per-base-unit cost price of a product.
type CostPriceChange struct {
	ProductID     id.ID
	UnitCostPrice decimal.Decimal
}

// HistoryRecord is a History row still missing its branch and worker,
// which come from the parent document.
type HistoryRecord struct {
	ProductID  id.ID
	ChangeType history.ChangeType
	Quantity   decimal.Decimal
}

// MutationSet is the list of writes one item operation causes.
// An empty set means nothing changes.
type MutationSet struct {
	CostPrice *CostPriceChange
	Stock     []StockChange
	History   []HistoryRecord
}

// IsEmpty reports whether the set carries no writes.
func (m MutationSet) IsEmpty() bool {
	return m.CostPrice == nil && len(m.Stock) == 0 && len(m.History) == 0
}

// Entries turns the History records into unsaved History entries.
func (m MutationSet) Entries(branchID id.ID, workerID *id.ID) []*history.Entry {
	entries := make([]*history.Entry, 0, len(m.History))
	for _, h := range m.History {
		entries = append(entries, history.NewEntry(branchID, workerID, h.ProductID, h.ChangeType, h.Quantity))
	}
	return entries
}
