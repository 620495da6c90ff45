package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/domain/documents/purchase"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo stores purchase batches (add_products) and their items.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.AddProduct]
	items *itemStore[*purchase.AddProductItem]
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"add_products",
			"AddProduct",
			"added_at",
			postgres.ExtractDBColumns[purchase.AddProduct](),
			func() *purchase.AddProduct { return &purchase.AddProduct{} },
		),
		items: &itemStore[*purchase.AddProductItem]{
			txManager:  txManager,
			tableName:  "add_product_items",
			entityName: "AddProductItem",
			parentCol:  "add_product_id",
			dateCol:    "added_at",
			selectCols: postgres.ExtractDBColumns[purchase.AddProductItem](),
			newFn:      func() *purchase.AddProductItem { return &purchase.AddProductItem{} },
		},
	}
}

func (r *PurchaseRepo) listQuery(filter purchase.ListFilter) squirrel.SelectBuilder {
	q := r.BaseDocumentRepo.listQuery(filter.ListFilter, filter.DateFrom, filter.DateTo)
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	return q
}

// List retrieves purchase batch headers.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.AddProduct], error) {
	return r.list(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *PurchaseRepo) GetItem(ctx context.Context, itemID id.ID) (*purchase.AddProductItem, error) {
	return r.items.get(ctx, itemID)
}

func (r *PurchaseRepo) GetItems(ctx context.Context, docID id.ID) ([]*purchase.AddProductItem, error) {
	return r.items.listFor(ctx, docID)
}

func (r *PurchaseRepo) CreateItem(ctx context.Context, item *purchase.AddProductItem) error {
	return r.items.create(ctx, item)
}

func (r *PurchaseRepo) UpdateItem(ctx context.Context, item *purchase.AddProductItem) error {
	return r.items.update(ctx, item)
}

func (r *PurchaseRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.items.delete(ctx, itemID)
}
