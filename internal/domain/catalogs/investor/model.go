// Package investor provides the Investor registry: capital put into a branch.
package investor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/phone"
	"storeledger/internal/core/validate"
)

// Investor records an investment in a branch. The amount is only tagged with
// its currency, never converted.
type Investor struct {
	entity.BaseEntity
	entity.CurrencyAware

	BranchID    id.ID           `db:"branch_id" json:"branchId" validate:"required"`
	Name        string          `db:"name" json:"name" validate:"required,max=100"`
	Surname     string          `db:"surname" json:"surname" validate:"required,max=100"`
	Age         string          `db:"age" json:"age" validate:"max=100"`
	PhoneNumber string          `db:"phone_number" json:"phoneNumber" validate:"required,max=15"`
	Invest      decimal.Decimal `db:"invest" json:"invest" validate:"gte=0"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// NewInvestor creates a new Investor with required fields.
func NewInvestor(branchID id.ID, name, surname, phoneNumber string, invest decimal.Decimal, currency entity.Currency) *Investor {
	return &Investor{
		BaseEntity:    entity.NewBaseEntity(),
		CurrencyAware: entity.CurrencyAware{Currency: currency},
		BranchID:      branchID,
		Name:          name,
		Surname:       surname,
		PhoneNumber:   phoneNumber,
		Invest:        invest,
	}
}

// Validate implements entity.Validatable interface.
func (i *Investor) Validate(ctx context.Context) error {
	if err := i.ValidateCurrency(ctx); err != nil {
		return err
	}
	normalized, err := phone.Normalize(i.PhoneNumber)
	if err != nil {
		return err
	}
	i.PhoneNumber = normalized
	return validate.Struct(i)
}
