package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
)

// Repository defines operations for sales and their items.
type Repository interface {
	Create(ctx context.Context, doc *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// UpdatePayment stores amount, currency and the re-derived discount.
	UpdatePayment(ctx context.Context, saleID id.ID, amount decimal.Decimal, currency entity.Currency, discount decimal.Decimal) error

	// UpdateTotals stores the derived total and discount.
	UpdateTotals(ctx context.Context, saleID id.ID, total, discount decimal.Decimal) error

	Delete(ctx context.Context, saleID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)

	GetItem(ctx context.Context, itemID id.ID) (*SaleItem, error)
	GetItems(ctx context.Context, saleID id.ID) ([]*SaleItem, error)
	CreateItem(ctx context.Context, item *SaleItem) error
	UpdateItem(ctx context.Context, item *SaleItem) error
	DeleteItem(ctx context.Context, itemID id.ID) error
}

// ListFilter for filtering sales.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}
