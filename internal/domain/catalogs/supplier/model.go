// Package supplier provides the Supplier registry.
package supplier

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/phone"
	"storeledger/internal/core/validate"
)

// Supplier delivers goods to one branch or, without a branch, to all of them.
// Debt is maintained by hand; purchases do not move it.
type Supplier struct {
	entity.BaseEntity

	BranchID    *id.ID          `db:"branch_id" json:"branchId,omitempty"`
	Name        string          `db:"name" json:"name" validate:"required,max=100"`
	PhoneNumber string          `db:"phone_number" json:"phoneNumber" validate:"required,max=15"`
	Debt        decimal.Decimal `db:"debt" json:"debt" validate:"gte=0"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(branchID *id.ID, name, phoneNumber string) *Supplier {
	return &Supplier{
		BaseEntity:  entity.NewBaseEntity(),
		BranchID:    branchID,
		Name:        name,
		PhoneNumber: phoneNumber,
		Debt:        decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	normalized, err := phone.Normalize(s.PhoneNumber)
	if err != nil {
		return err
	}
	s.PhoneNumber = normalized
	return validate.Struct(s)
}
