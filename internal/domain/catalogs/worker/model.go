// Package worker provides the Worker registry: shop staff who record
// purchases, sales and expenses.
package worker

import (
	"context"
	"time"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/phone"
	"storeledger/internal/core/validate"
)

// Worker is an employee of one branch.
type Worker struct {
	entity.BaseEntity

	BranchID    id.ID     `db:"branch_id" json:"branchId" validate:"required"`
	Name        string    `db:"name" json:"name" validate:"required,max=100"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber" validate:"required,max=15"`
	Position    string    `db:"position" json:"position" validate:"required,max=100"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// NewWorker creates a new Worker with required fields.
func NewWorker(branchID id.ID, name, phoneNumber, position string) *Worker {
	return &Worker{
		BaseEntity:  entity.NewBaseEntity(),
		BranchID:    branchID,
		Name:        name,
		PhoneNumber: phoneNumber,
		Position:    position,
	}
}

// Validate implements entity.Validatable interface.
// The phone number is normalized in place.
func (w *Worker) Validate(ctx context.Context) error {
	normalized, err := phone.Normalize(w.PhoneNumber)
	if err != nil {
		return err
	}
	w.PhoneNumber = normalized
	return validate.Struct(w)
}
