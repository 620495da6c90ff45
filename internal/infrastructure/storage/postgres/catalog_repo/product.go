package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo is the PostgreSQL implementation of product.Repository.
// Quantity is only ever changed with relative updates so concurrent
// documents touching the same product never lose each other's writes.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
	batch *postgres.BatchInserter
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"products",
		"Product",
		postgres.ExtractDBColumns[product.Product](),
		func() *product.Product { return &product.Product{} },
	)
	base.preserve("quantity")
	return &ProductRepo{
		BaseCatalogRepo: base,
		batch:           postgres.NewBatchInserter(txManager),
	}
}

// GetByBarcode retrieves a product by its barcode.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Limit(1)

	return r.FindOne(ctx, q, barcode)
}

func (r *ProductRepo) addQuantityQuery(productID id.ID, delta decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": productID}).
		Suffix("RETURNING quantity")
}

// AddQuantity applies quantity = quantity + delta and returns the new quantity.
func (r *ProductRepo) AddQuantity(ctx context.Context, productID id.ID, delta decimal.Decimal) (decimal.Decimal, error) {
	sql, args, err := r.addQuantityQuery(productID, delta).ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build add quantity: %w", err)
	}

	var quantity decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperror.NewNotFound(r.entityName, productID.String())
		}
		return decimal.Zero, fmt.Errorf("add product quantity: %w", err)
	}
	return quantity, nil
}

func (r *ProductRepo) subtractQuantityQuery(productID id.ID, qty decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		Set("quantity", squirrel.Expr("quantity - ?", qty)).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.GtOrEq{"quantity": qty}).
		Suffix("RETURNING quantity")
}

// SubtractQuantity decrements stock only when enough is on hand. When the
// guard rejects the update, remaining is the current quantity and ok is false.
func (r *ProductRepo) SubtractQuantity(ctx context.Context, productID id.ID, qty decimal.Decimal) (decimal.Decimal, bool, error) {
	sql, args, err := r.subtractQuantityQuery(productID, qty).ToSql()
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("build subtract quantity: %w", err)
	}

	querier := r.querier(ctx)

	var remaining decimal.Decimal
	err = querier.QueryRow(ctx, sql, args...).Scan(&remaining)
	if err == nil {
		return remaining, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, fmt.Errorf("subtract product quantity: %w", err)
	}

	// Either the product is gone or the guard failed; tell them apart.
	var current decimal.Decimal
	err = querier.QueryRow(ctx, "SELECT quantity FROM products WHERE id = $1", productID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, apperror.NewNotFound(r.entityName, productID.String())
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("read product quantity: %w", err)
	}
	return current, false, nil
}

// SetCostPrice overwrites the per-base-unit cost price.
func (r *ProductRepo) SetCostPrice(ctx context.Context, productID id.ID, price decimal.Decimal) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("cost_price", price).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set cost price: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set product cost price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, productID.String())
	}
	return nil
}

// CreateBatch inserts products with COPY. Must run inside a transaction.
func (r *ProductRepo) CreateBatch(ctx context.Context, products []*product.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(products))
	for _, p := range products {
		data := postgres.StructToMap(p)
		row := make([]any, len(r.selectCols))
		for i, col := range r.selectCols {
			row[i] = copyValue(data[col])
		}
		rows = append(rows, row)
	}

	n, err := r.batch.CopyFromSlice(ctx, r.tableName, r.selectCols, rows)
	if err != nil {
		return 0, postgres.MapWriteError(err, r.entityName)
	}
	return n, nil
}

// copyValue converts decimals to pgtype.Numeric, which COPY can encode in
// binary without going through text.
func copyValue(v any) any {
	switch d := v.(type) {
	case decimal.Decimal:
		return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
	case decimal.NullDecimal:
		if !d.Valid {
			return pgtype.Numeric{}
		}
		return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
	}
	return v
}
