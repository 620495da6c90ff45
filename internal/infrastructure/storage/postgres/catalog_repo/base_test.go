package catalog_repo

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/domain/catalogs/product"
)

func TestBaseCatalogRepo_ListQuery(t *testing.T) {
	repo := NewCustomerRepo(nil)
	branchID := id.New()

	q, err := repo.listQuery(domain.ListFilter{BranchID: &branchID, Search: "ali"})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM customers WHERE branch_id = $1 AND name ILIKE $2")
	assert.Equal(t, []any{branchID.String(), "%ali%"}, args)
}

func TestBaseCatalogRepo_ListQuery_BranchTableFiltersByID(t *testing.T) {
	repo := NewBranchRepo(nil)
	branchID := id.New()

	q, err := repo.listQuery(domain.ListFilter{BranchID: &branchID})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM branches WHERE id = $1")
	assert.Equal(t, []any{branchID.String()}, args)
}

func TestBaseCatalogRepo_ParseOrderBy(t *testing.T) {
	repo := NewProductRepo(nil)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "name ASC"},
		{in: "-sale_price", want: "sale_price DESC"},
		{in: "+barcode", want: "barcode ASC"},
		{in: "quantity; DROP TABLE products", wantErr: true},
		{in: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.in)
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpenseRepo_DefaultOrder(t *testing.T) {
	repo := NewExpenseRepo(nil)

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "incurred_at DESC", got)
}

func TestProductRepo_UpdateNeverWritesQuantity(t *testing.T) {
	repo := NewProductRepo(nil)
	p := product.NewProduct(id.New(), "Tea", decimal.NewFromInt(10), decimal.NewFromInt(12))
	p.Quantity = decimal.NewFromInt(999)

	q, err := repo.updateQuery(p)
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "quantity")
	assert.Contains(t, sql, "WHERE id = $8")
	require.Len(t, args, 8)
	// Set values stay typed; Eq values go through driver.Valuer
	assert.Contains(t, args, p.SalePrice)
	assert.Equal(t, p.ID.String(), args[len(args)-1])
}

func TestCustomerRepo_UpdateNeverWritesDebt(t *testing.T) {
	repo := NewCustomerRepo(nil)

	assert.Contains(t, repo.preservedCols, "debt")
	assert.Contains(t, repo.preservedCols, "created_at")
}

func TestProductRepo_SubtractQuantityIsGuarded(t *testing.T) {
	repo := NewProductRepo(nil)
	productID := id.New()
	qty := decimal.NewFromInt(3)

	sql, args, err := repo.subtractQuantityQuery(productID, qty).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE products SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $3 RETURNING quantity",
		sql)
	assert.Equal(t, []any{qty, productID.String(), "3"}, args)
}

func TestProductRepo_AddQuantityIsRelative(t *testing.T) {
	repo := NewProductRepo(nil)
	productID := id.New()
	delta := decimal.NewFromInt(-2)

	sql, args, err := repo.addQuantityQuery(productID, delta).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE products SET quantity = quantity + $1 WHERE id = $2 RETURNING quantity", sql)
	assert.Equal(t, []any{delta, productID.String()}, args)
}

func TestCustomerRepo_DebtQueries(t *testing.T) {
	repo := NewCustomerRepo(nil)
	customerID := id.New()
	amount := decimal.NewFromInt(50)

	sql, args, err := repo.reduceDebtQuery(customerID, amount).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE customers SET debt = GREATEST(debt - $1, 0) WHERE id = $2", sql)
	assert.Equal(t, []any{amount, customerID.String()}, args)

	sql, _, err = repo.adjustDebtQuery(customerID, amount).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE customers SET debt = debt + $1 WHERE id = $2", sql)
}

func TestCopyValue_Decimals(t *testing.T) {
	got := copyValue(decimal.RequireFromString("12.345"))
	num, ok := got.(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, num.Valid)
	assert.Equal(t, int64(12345), num.Int.Int64())
	assert.Equal(t, int32(-3), num.Exp)

	null, ok := copyValue(decimal.NullDecimal{}).(pgtype.Numeric)
	require.True(t, ok)
	assert.False(t, null.Valid)

	assert.Equal(t, "plain", copyValue("plain"))
}
