package product

import (
	"context"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
	"storeledger/internal/domain"
)

// Repository defines the interface for Product persistence.
// Update never writes quantity; the stock methods below are the only
// writers and they issue relative updates.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetByBarcode retrieves a product by its barcode.
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)

	// AddQuantity applies quantity = quantity + delta and returns the new quantity.
	AddQuantity(ctx context.Context, productID id.ID, delta decimal.Decimal) (decimal.Decimal, error)

	// SubtractQuantity applies quantity = quantity - qty only when enough is
	// on hand. ok is false when the guard rejected the update.
	SubtractQuantity(ctx context.Context, productID id.ID, qty decimal.Decimal) (remaining decimal.Decimal, ok bool, err error)

	// SetCostPrice overwrites the per-base-unit cost price.
	SetCostPrice(ctx context.Context, productID id.ID, price decimal.Decimal) error

	// CreateBatch inserts many new products at once (catalog import).
	CreateBatch(ctx context.Context, products []*Product) (int64, error)
}
