// Package history provides the append-only audit trail of product quantity changes.
package history

import (
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
)

// ChangeType describes why a product quantity moved. The values are the
// labels the stores already use in their reports.
type ChangeType string

const (
	ChangeAdded        ChangeType = "Qo'shildi"
	ChangeRemoved      ChangeType = "O'chirildi"
	ChangeSold         ChangeType = "Sotildi"
	ChangeSaleCanceled ChangeType = "Sotuv bekor qilindi"
)

// IsValid reports whether t is one of the known change types.
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeAdded, ChangeRemoved, ChangeSold, ChangeSaleCanceled:
		return true
	}
	return false
}

// Entry is one immutable History row. QuantityChanged is a magnitude; the
// direction is carried by ChangeType.
//
// An Entry without an ID has not been stored yet. Once stored it can never be
// saved again.
type Entry struct {
	ID              id.ID           `db:"id" json:"id"`
	BranchID        id.ID           `db:"branch_id" json:"branchId"`
	WorkerID        *id.ID          `db:"worker_id" json:"workerId,omitempty"`
	ProductID       id.ID           `db:"product_id" json:"productId"`
	ChangeType      ChangeType      `db:"change_type" json:"changeType"`
	QuantityChanged decimal.Decimal `db:"quantity_changed" json:"quantityChanged"`
	ChangedAt       time.Time       `db:"changed_at" json:"changedAt"`
}

// NewEntry prepares an unsaved entry.
func NewEntry(branchID id.ID, workerID *id.ID, productID id.ID, changeType ChangeType, qty decimal.Decimal) *Entry {
	return &Entry{
		BranchID:        branchID,
		WorkerID:        workerID,
		ProductID:       productID,
		ChangeType:      changeType,
		QuantityChanged: qty,
	}
}

// IsStored reports whether the entry already has an identity.
func (e *Entry) IsStored() bool {
	return !id.IsNil(e.ID)
}
