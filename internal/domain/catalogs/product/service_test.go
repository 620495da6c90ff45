package product_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/testutil/memory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService() (*product.Service, *memory.Products, *memory.TxManager) {
	repo := memory.NewProducts()
	txm := memory.NewTxManager(repo)
	return product.NewService(repo, txm, nil), repo, txm
}

func TestService_CreateStartsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()

	p := product.NewProduct(id.New(), "Cola 1.5", d("8"), d("12"))
	p.Quantity = d("99")
	require.NoError(t, svc.Create(ctx, p))

	assert.True(t, p.Quantity.IsZero())
	assert.True(t, repo.Quantity(p.ID).IsZero())
}

func TestService_UpdateKeepsQuantity(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()

	p := product.NewProduct(id.New(), "Cola 1.5", d("8"), d("12"))
	require.NoError(t, svc.Create(ctx, p))
	_, err := repo.AddQuantity(ctx, p.ID, d("40"))
	require.NoError(t, err)

	edit := *p
	edit.SalePrice = d("13")
	edit.Quantity = d("1")
	require.NoError(t, svc.Update(ctx, &edit))

	assert.True(t, d("40").Equal(edit.Quantity))
	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, d("13").Equal(stored.SalePrice))
	assert.True(t, d("40").Equal(stored.Quantity))

	missing := product.NewProduct(id.New(), "Ghost", d("1"), d("1"))
	assert.True(t, apperror.IsNotFound(svc.Update(ctx, missing)))
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	branchID := id.New()

	tests := []struct {
		name   string
		mutate func(p *product.Product)
	}{
		{name: "empty name", mutate: func(p *product.Product) { p.Name = "" }},
		{name: "negative sale price", mutate: func(p *product.Product) { p.SalePrice = d("-1") }},
		{name: "unknown unit", mutate: func(p *product.Product) { p.BaseUnit = "box" }},
		{name: "zero kg factor", mutate: func(p *product.Product) {
			p.BaseUnit = product.UnitKilogram
			p.KgToPcs = decimal.NewNullDecimal(decimal.Zero)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product.NewProduct(branchID, "Sugar", d("1"), d("2"))
			tt.mutate(p)
			err := svc.Create(ctx, p)
			assert.True(t, apperror.IsValidation(err), "%v", err)
		})
	}
}

func TestService_BarcodeIsUnique(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	barcode := " 4780000000017 "

	first := product.NewProduct(id.New(), "Cola", d("1"), d("2"))
	first.Barcode = &barcode
	require.NoError(t, svc.Create(ctx, first))
	assert.Equal(t, "4780000000017", *first.Barcode)

	found, err := svc.GetByBarcode(ctx, "4780000000017")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	second := product.NewProduct(id.New(), "Cola copy", d("1"), d("2"))
	second.Barcode = &barcode
	err = svc.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	svc, repo, txm := newService()
	branchID := id.New()

	rows := []*product.Product{
		product.NewProduct(branchID, "Bread", d("3"), d("4")),
		product.NewProduct(branchID, "Milk", d("9"), d("11")),
	}
	rows[1].Quantity = d("5")

	n, err := svc.Import(ctx, rows)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.True(t, repo.Quantity(rows[1].ID).IsZero())
	assert.Equal(t, 1, txm.Commits)

	t.Run("a bad row rejects the whole batch", func(t *testing.T) {
		batch := []*product.Product{
			product.NewProduct(branchID, "Tea", d("1"), d("2")),
			product.NewProduct(branchID, "", d("1"), d("2")),
		}
		_, err := svc.Import(ctx, batch)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 2, appErr.Details["row"])

		exists, err := svc.Exists(ctx, batch[0].ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestService_DeleteRefusesStockOnHand(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()

	p := product.NewProduct(id.New(), "Cola 1.5", d("8"), d("12"))
	require.NoError(t, svc.Create(ctx, p))
	_, err := repo.AddQuantity(ctx, p.ID, d("3"))
	require.NoError(t, err)

	err = svc.Delete(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeStockOnHand))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "3", appErr.Details["quantity"])

	exists, err := svc.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, _, err = repo.SubtractQuantity(ctx, p.ID, d("3"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	exists, err = svc.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
