// Package expense provides the Expense registry: money taken out of the till.
package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/validate"
)

// Category is the reason money was taken.
type Category string

const (
	CategoryShop     Category = "shop"
	CategoryPersonal Category = "personal"
	CategoryOther    Category = "other"
)

// Expense is a single outflow recorded by a worker.
type Expense struct {
	entity.BaseEntity

	BranchID    *id.ID          `db:"branch_id" json:"branchId,omitempty"`
	WorkerID    id.ID           `db:"worker_id" json:"workerId" validate:"required"`
	Category    Category        `db:"category" json:"category" validate:"required,oneof=shop personal other"`
	Amount      decimal.Decimal `db:"amount" json:"amount" validate:"gt=0"`
	Description *string         `db:"description" json:"description,omitempty"`
	IncurredAt  time.Time       `db:"incurred_at" json:"incurredAt"`
}

// NewExpense creates a new Expense with required fields.
func NewExpense(branchID *id.ID, workerID id.ID, category Category, amount decimal.Decimal) *Expense {
	return &Expense{
		BaseEntity: entity.NewBaseEntity(),
		BranchID:   branchID,
		WorkerID:   workerID,
		Category:   category,
		Amount:     amount,
	}
}

// Validate implements entity.Validatable interface.
func (e *Expense) Validate(ctx context.Context) error {
	return validate.Struct(e)
}
