package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/domain/documents/sale"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo stores sales and their items.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
	items *itemStore[*sale.SaleItem]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"sales",
			"Sale",
			"sold_at",
			postgres.ExtractDBColumns[sale.Sale](),
			func() *sale.Sale { return &sale.Sale{} },
		),
		items: &itemStore[*sale.SaleItem]{
			txManager:  txManager,
			tableName:  "sale_items",
			entityName: "SaleItem",
			parentCol:  "sale_id",
			dateCol:    "sold_at",
			selectCols: postgres.ExtractDBColumns[sale.SaleItem](),
			newFn:      func() *sale.SaleItem { return &sale.SaleItem{} },
		},
	}
}

// UpdatePayment stores the paid amount, its currency and the discount
// derived from them.
func (r *SaleRepo) UpdatePayment(ctx context.Context, saleID id.ID, amount decimal.Decimal, currency entity.Currency, discount decimal.Decimal) error {
	return r.execHeaderUpdate(ctx, saleID, builder().
		Update(r.tableName).
		Set("amount", amount).
		Set("currency", currency).
		Set("discount", discount).
		Where(squirrel.Eq{"id": saleID}))
}

// UpdateTotals stores the recalculated total and discount.
func (r *SaleRepo) UpdateTotals(ctx context.Context, saleID id.ID, total, discount decimal.Decimal) error {
	return r.execHeaderUpdate(ctx, saleID, builder().
		Update(r.tableName).
		Set("total_price", total).
		Set("discount", discount).
		Where(squirrel.Eq{"id": saleID}))
}

func (r *SaleRepo) execHeaderUpdate(ctx context.Context, saleID id.ID, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sales: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, saleID.String())
	}
	return nil
}

func (r *SaleRepo) listQuery(filter sale.ListFilter) squirrel.SelectBuilder {
	q := r.BaseDocumentRepo.listQuery(filter.ListFilter, filter.DateFrom, filter.DateTo)
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	return q
}

// List retrieves sale headers.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	return r.list(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *SaleRepo) GetItem(ctx context.Context, itemID id.ID) (*sale.SaleItem, error) {
	return r.items.get(ctx, itemID)
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]*sale.SaleItem, error) {
	return r.items.listFor(ctx, saleID)
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *sale.SaleItem) error {
	return r.items.create(ctx, item)
}

func (r *SaleRepo) UpdateItem(ctx context.Context, item *sale.SaleItem) error {
	return r.items.update(ctx, item)
}

func (r *SaleRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.items.delete(ctx, itemID)
}
