package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/documents/purchase"
	"storeledger/internal/domain/documents/sale"
	"storeledger/internal/domain/ledger"
	"storeledger/internal/domain/registers/history"
	"storeledger/internal/domain/reports"
	"storeledger/internal/testutil/memory"
	"storeledger/pkg/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Create(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())

	products := memory.NewProducts()
	customers := memory.NewCustomers()
	sales := memory.NewSales()
	purchases := memory.NewPurchases()
	historyStore := memory.NewHistory()
	repo := memory.NewReports(sales, purchases, customers)
	txm := memory.NewTxManager(products, customers, sales, purchases, historyStore, repo)

	applier := ledger.NewApplier(products, history.NewService(historyStore))
	customerSvc := customer.NewService(customers, txm, nil)
	purchaseSvc := purchase.NewService(purchases, products, applier, txm)
	saleSvc := sale.NewService(sales, products, customerSvc, applier, txm)
	svc := reports.NewService(repo, txm)

	branchID, otherBranch, workerID := id.New(), id.New(), id.New()
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rice := products.Put(product.NewProduct(branchID, "Rice", d("0"), d("20")))
	elsewhere := products.Put(product.NewProduct(otherBranch, "Rice", d("0"), d("20")))

	intake := purchase.NewAddProduct(branchID, workerID, nil)
	intake.AddedAt = day.Add(8 * time.Hour)
	intake.AddItem(rice.ID, d("50"), d("12")).AddedAt = day.Add(8 * time.Hour)
	require.NoError(t, purchaseSvc.Create(ctx, intake))
	require.NoError(t, purchaseSvc.AddItem(ctx, intake.ID, &purchase.AddProductItem{
		ProductID:     rice.ID,
		InputQuantity: d("10"),
		Price:         d("12"),
		AddedAt:       day.AddDate(0, 0, 1),
	}))

	foreign := purchase.NewAddProduct(otherBranch, workerID, nil)
	foreign.AddItem(elsewhere.ID, d("5"), d("12")).AddedAt = day.Add(9 * time.Hour)
	require.NoError(t, purchaseSvc.Create(ctx, foreign))

	credit := sale.NewSale(branchID, workerID, d("500"))
	credit.SoldAt = day.Add(10 * time.Hour)
	credit.Customer = &customer.Contact{Name: "Ali", PhoneNumber: "+998901234567"}
	credit.AddItem(rice.ID, d("30"))
	require.NoError(t, saleSvc.Create(ctx, credit))

	late := sale.NewSale(branchID, workerID, d("40"))
	late.SoldAt = day.AddDate(0, 0, 2)
	late.AddItem(rice.ID, d("2"))
	require.NoError(t, saleSvc.Create(ctx, late))

	window := reports.Window{Start: day, End: day.Add(24*time.Hour - time.Second)}
	report, err := svc.Create(ctx, branchID, window)
	require.NoError(t, err)

	// items are stamped with their own time, so only the 08:00 item counts
	assert.True(t, d("600").Equal(report.TotalPurchase), "purchase: %s", report.TotalPurchase)
	assert.True(t, d("600").Equal(report.TotalSales), "sales: %s", report.TotalSales)
	assert.True(t, d("100").Equal(report.TotalDiscounts), "discounts: %s", report.TotalDiscounts)
	assert.True(t, d("500").Equal(report.TotalDebt), "debt: %s", report.TotalDebt)

	stored, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, window.Start, stored.StartDatetime)

	// the window is closed: a sale stamped exactly at its end counts
	atEnd := sale.NewSale(branchID, workerID, d("20"))
	atEnd.SoldAt = window.End
	atEnd.AddItem(rice.ID, d("1"))
	require.NoError(t, saleSvc.Create(ctx, atEnd))

	second, err := svc.Create(ctx, branchID, window)
	require.NoError(t, err)
	assert.True(t, d("620").Equal(second.TotalSales), "sales: %s", second.TotalSales)
	assert.True(t, d("100").Equal(second.TotalDiscounts), "discounts: %s", second.TotalDiscounts)

	// a stored report is a snapshot; later sales in its window leave it alone
	stored, err = svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, d("600").Equal(stored.TotalSales), "stored sales: %s", stored.TotalSales)
	assert.True(t, d("100").Equal(stored.TotalDiscounts))
	assert.True(t, d("600").Equal(stored.TotalPurchase))
	assert.True(t, d("500").Equal(stored.TotalDebt))

	listed, err := svc.List(ctx, reports.ListFilter{BranchID: &branchID})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestService_CreateEmptyWindow(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	repo := memory.NewReports(memory.NewSales(), memory.NewPurchases(), memory.NewCustomers())
	svc := reports.NewService(repo, memory.NewTxManager(repo))

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	report, err := svc.Create(ctx, id.New(), reports.Window{Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, report.TotalSales.IsZero())
	assert.True(t, report.TotalDiscounts.IsZero())
	assert.True(t, report.TotalPurchase.IsZero())
	assert.True(t, report.TotalDebt.IsZero())
}

func TestService_CreateRejectsBadWindow(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	repo := memory.NewReports(memory.NewSales(), memory.NewPurchases(), memory.NewCustomers())
	svc := reports.NewService(repo, memory.NewTxManager(repo))
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		branchID id.ID
		window   reports.Window
	}{
		{name: "missing branch", branchID: id.Nil(), window: reports.Window{Start: start, End: start}},
		{name: "missing end", branchID: id.New(), window: reports.Window{Start: start}},
		{name: "start after end", branchID: id.New(), window: reports.Window{Start: start, End: start.Add(-time.Minute)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.branchID, tt.window)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}
