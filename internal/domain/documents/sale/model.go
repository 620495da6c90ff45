// Package sale provides sale processing: a till receipt (Sale) and the
// products sold on it (SaleItem).
package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/types"
	"storeledger/internal/domain/catalogs/customer"
)

// Sale is one receipt. TotalPrice and Discount are derived from the items
// and the paid amount; callers never set them.
type Sale struct {
	entity.Document
	entity.CurrencyAware

	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Discount   decimal.Decimal `db:"discount" json:"discount"`
	CustomerID *id.ID          `db:"customer_id" json:"customerId,omitempty"`
	SoldAt     time.Time       `db:"sold_at" json:"soldAt"`

	// Customer names a buyer by contact; on create it is resolved to the
	// branch's customer with that name and phone, created when missing.
	Customer *customer.Contact `db:"-" json:"customer,omitempty"`

	Items []*SaleItem `db:"-" json:"items"`
}

// SaleItem is one product line of a sale, in base units.
// TotalPrice is the product's sale price at save time times the quantity.
type SaleItem struct {
	ID         id.ID           `db:"id" json:"id"`
	SaleID     id.ID           `db:"sale_id" json:"saleId"`
	ProductID  id.ID           `db:"product_id" json:"productId"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
	SoldAt     time.Time       `db:"sold_at" json:"soldAt"`
}

// NewSale creates a new sale paid in the default currency.
func NewSale(branchID, workerID id.ID, amount decimal.Decimal) *Sale {
	return &Sale{
		Document:      entity.NewDocument(branchID, workerID),
		CurrencyAware: entity.CurrencyAware{Currency: entity.DefaultCurrency},
		TotalPrice:    decimal.Zero,
		Amount:        amount,
		Discount:      decimal.Zero,
		Items:         make([]*SaleItem, 0),
	}
}

// AddItem appends an unsaved item.
func (s *Sale) AddItem(productID id.ID, quantity decimal.Decimal) *SaleItem {
	item := &SaleItem{ProductID: productID, Quantity: quantity}
	s.Items = append(s.Items, item)
	return item
}

// HasCustomer reports whether the sale is attached to a customer.
func (s *Sale) HasCustomer() bool {
	return s.CustomerID != nil && !id.IsNil(*s.CustomerID)
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	if err := s.ValidateCurrency(ctx); err != nil {
		return err
	}
	if s.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").
			WithDetail("field", "amount")
	}

	for i, item := range s.Items {
		if err := item.validate(); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
	}

	return nil
}

func (i *SaleItem) validate() *apperror.AppError {
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !types.RoundQuantity(i.Quantity).IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}
