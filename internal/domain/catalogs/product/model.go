// Package product provides the product catalog of a branch.
// On-hand quantity is owned by the ledger: it moves only through purchase
// and sale items and their reversal.
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/validate"
)

// BaseUnit is the unit a product is received in.
type BaseUnit string

const (
	UnitPieces   BaseUnit = "pcs"
	UnitKilogram BaseUnit = "kg"
)

// Product is a stock item of one branch. Quantity, cost and sale price are
// all per base unit (pieces, or pieces-equivalent for kg products).
type Product struct {
	entity.BaseEntity

	BranchID id.ID `db:"branch_id" json:"branchId" validate:"required"`

	Name string `db:"name" json:"name" validate:"required,max=100"`

	// Barcode is globally unique when set
	Barcode *string `db:"barcode" json:"barcode,omitempty" validate:"omitempty,max=50"`

	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	CostPrice decimal.Decimal `db:"cost_price" json:"costPrice" validate:"gte=0"`

	SalePrice decimal.Decimal `db:"sale_price" json:"salePrice" validate:"gte=0"`

	BaseUnit BaseUnit `db:"base_unit" json:"baseUnit" validate:"required,oneof=pcs kg"`

	// KgToPcs is how many pieces one kilogram yields; needed before a kg
	// product can be purchased.
	KgToPcs decimal.NullDecimal `db:"kg_to_pcs" json:"kgToPcs"`
}

// NewProduct creates a piece-counted product with zero stock.
func NewProduct(branchID id.ID, name string, costPrice, salePrice decimal.Decimal) *Product {
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		BranchID:   branchID,
		Name:       name,
		Quantity:   decimal.Zero,
		CostPrice:  costPrice,
		SalePrice:  salePrice,
		BaseUnit:   UnitPieces,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if p.BaseUnit == "" {
		p.BaseUnit = UnitPieces
	}
	if p.Barcode != nil {
		trimmed := strings.TrimSpace(*p.Barcode)
		if trimmed == "" {
			p.Barcode = nil
		} else {
			p.Barcode = &trimmed
		}
	}

	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.KgToPcs.Valid && !p.KgToPcs.Decimal.IsPositive() {
		return apperror.NewValidation("kg_to_pcs must be positive").
			WithDetail("field", "kgToPcs").
			WithDetail("value", p.KgToPcs.Decimal.String())
	}

	return nil
}

// ConversionFactor returns how many base units one input unit adds.
// Piece products convert 1:1. A kg product without a factor fails with
// MissingConversionFactor.
func (p *Product) ConversionFactor() (decimal.Decimal, error) {
	if p.BaseUnit != UnitKilogram {
		return decimal.NewFromInt(1), nil
	}
	if !p.KgToPcs.Valid || !p.KgToPcs.Decimal.IsPositive() {
		return decimal.Zero, apperror.NewMissingConversionFactor(p.ID.String(), p.Name)
	}
	return p.KgToPcs.Decimal, nil
}
