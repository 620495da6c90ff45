package purchase

import (
	"context"
	"time"

	"storeledger/internal/core/id"
	"storeledger/internal/domain"
)

// Repository defines operations for purchase batches and their items.
// Item rows are written one at a time; deleting a batch never removes
// items on its own, the service reverses and deletes them first.
type Repository interface {
	Create(ctx context.Context, doc *AddProduct) error
	GetByID(ctx context.Context, docID id.ID) (*AddProduct, error)
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*AddProduct], error)

	GetItem(ctx context.Context, itemID id.ID) (*AddProductItem, error)
	GetItems(ctx context.Context, docID id.ID) ([]*AddProductItem, error)
	CreateItem(ctx context.Context, item *AddProductItem) error
	UpdateItem(ctx context.Context, item *AddProductItem) error
	DeleteItem(ctx context.Context, itemID id.ID) error
}

// ListFilter for filtering purchase batches.
type ListFilter struct {
	domain.ListFilter

	SupplierID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}
