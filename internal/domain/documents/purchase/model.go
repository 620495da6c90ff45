// Package purchase provides purchase intake: a batch of goods received at a
// branch (AddProduct) and its items (AddProductItem).
package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
)

// AddProduct is one delivery of goods to a branch.
type AddProduct struct {
	entity.Document

	SupplierID *id.ID    `db:"supplier_id" json:"supplierId,omitempty"`
	AddedAt    time.Time `db:"added_at" json:"addedAt"`

	Items []*AddProductItem `db:"-" json:"items"`
}

// AddProductItem is one product line of a delivery.
//
// InputQuantity and Price are in the product's input unit (kg or pieces).
// AddedQuantity is the base-unit quantity that entered stock and TotalPrice
// its cost; both are derived when the item is saved.
type AddProductItem struct {
	ID            id.ID           `db:"id" json:"id"`
	AddProductID  id.ID           `db:"add_product_id" json:"addProductId"`
	ProductID     id.ID           `db:"product_id" json:"productId"`
	InputQuantity decimal.Decimal `db:"input_quantity" json:"inputQuantity"`
	AddedQuantity decimal.Decimal `db:"added_quantity" json:"addedQuantity"`
	Price         decimal.Decimal `db:"price" json:"price"`
	TotalPrice    decimal.Decimal `db:"total_price" json:"totalPrice"`
	AddedAt       time.Time       `db:"added_at" json:"addedAt"`
}

// NewAddProduct creates a new delivery document.
func NewAddProduct(branchID, workerID id.ID, supplierID *id.ID) *AddProduct {
	return &AddProduct{
		Document:   entity.NewDocument(branchID, workerID),
		SupplierID: supplierID,
		Items:      make([]*AddProductItem, 0),
	}
}

// AddItem appends an unsaved item.
func (a *AddProduct) AddItem(productID id.ID, inputQuantity, price decimal.Decimal) *AddProductItem {
	item := &AddProductItem{
		ProductID:     productID,
		InputQuantity: inputQuantity,
		Price:         price,
	}
	a.Items = append(a.Items, item)
	return item
}

// Validate implements entity.Validatable.
func (a *AddProduct) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	for i, item := range a.Items {
		if err := item.validate(); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
	}

	return nil
}

func (i *AddProductItem) validate() *apperror.AppError {
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !i.InputQuantity.IsPositive() {
		return apperror.NewValidation("input quantity must be positive").
			WithDetail("field", "inputQuantity")
	}
	if i.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}
	return nil
}

// Total is the cost of all items.
func (a *AddProduct) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range a.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}
