package sale_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/documents/sale"
	"storeledger/internal/domain/ledger"
	"storeledger/internal/domain/registers/history"
	"storeledger/internal/testutil/memory"
	"storeledger/pkg/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	svc       *sale.Service
	sales     *memory.Sales
	products  *memory.Products
	customers *memory.Customers
	history   *memory.History
	txm       *memory.TxManager

	branchID id.ID
	workerID id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		sales:     memory.NewSales(),
		products:  memory.NewProducts(),
		customers: memory.NewCustomers(),
		history:   memory.NewHistory(),
		branchID:  id.New(),
		workerID:  id.New(),
	}
	f.txm = memory.NewTxManager(f.sales, f.products, f.customers, f.history)

	customers := customer.NewService(f.customers, f.txm, nil)
	applier := ledger.NewApplier(f.products, history.NewService(f.history))
	f.svc = sale.NewService(f.sales, f.products, customers, applier, f.txm)
	return f
}

func (f *fixture) stock(name, qty, salePrice string) *product.Product {
	p := product.NewProduct(f.branchID, name, d("0"), d(salePrice))
	p.Quantity = d(qty)
	return f.products.Put(p)
}

func (f *fixture) newSale(amount string) *sale.Sale {
	return sale.NewSale(f.branchID, f.workerID, d(amount))
}

func TestService_CreateSellsFromStock(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Cola 0.5", "50", "20")

	doc := f.newSale("500")
	doc.AddItem(p.ID, d("30"))
	require.NoError(t, f.svc.Create(ctx, doc))

	assert.True(t, d("600").Equal(doc.TotalPrice), "total: %s", doc.TotalPrice)
	assert.True(t, d("100").Equal(doc.Discount), "discount: %s", doc.Discount)
	assert.True(t, d("20").Equal(f.products.Quantity(p.ID)))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, d("600").Equal(stored.TotalPrice))
	assert.True(t, d("100").Equal(stored.Discount))
	require.Len(t, stored.Items, 1)
	assert.True(t, d("600").Equal(stored.Items[0].TotalPrice))

	entries := f.history.ForProduct(p.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ChangeSold, entries[0].ChangeType)
	assert.True(t, d("30").Equal(entries[0].QuantityChanged))
	assert.Equal(t, f.branchID, entries[0].BranchID)
	assert.Equal(t, &f.workerID, entries[0].WorkerID)
}

func TestService_DeleteItemReturnsStock(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Cola 0.5", "50", "20")

	doc := f.newSale("500")
	item := doc.AddItem(p.ID, d("30"))
	require.NoError(t, f.svc.Create(ctx, doc))

	require.NoError(t, f.svc.DeleteItem(ctx, item.ID))

	assert.True(t, d("50").Equal(f.products.Quantity(p.ID)))
	entries := f.history.ForProduct(p.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, history.ChangeSaleCanceled, entries[1].ChangeType)
	assert.True(t, d("30").Equal(entries[1].QuantityChanged))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
	assert.True(t, stored.TotalPrice.IsZero())
	assert.True(t, stored.Discount.IsZero())
}

func TestService_UpdateItemMovesOnlyTheDifference(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Bread", "10", "4")

	doc := f.newSale("0")
	item := doc.AddItem(p.ID, d("3"))
	require.NoError(t, f.svc.Create(ctx, doc))

	require.NoError(t, f.svc.UpdateItem(ctx, &sale.SaleItem{ID: item.ID, ProductID: p.ID, Quantity: d("5")}))
	assert.True(t, d("5").Equal(f.products.Quantity(p.ID)))

	require.NoError(t, f.svc.UpdateItem(ctx, &sale.SaleItem{ID: item.ID, ProductID: p.ID, Quantity: d("1")}))
	assert.True(t, d("9").Equal(f.products.Quantity(p.ID)))

	entries := f.history.ForProduct(p.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, history.ChangeSold, entries[1].ChangeType)
	assert.True(t, d("2").Equal(entries[1].QuantityChanged))
	assert.Equal(t, history.ChangeSaleCanceled, entries[2].ChangeType)
	assert.True(t, d("4").Equal(entries[2].QuantityChanged))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, d("4").Equal(stored.TotalPrice))
}

func TestService_UnchangedQuantityWritesNoHistory(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Bread", "10", "4")

	doc := f.newSale("0")
	item := doc.AddItem(p.ID, d("3"))
	require.NoError(t, f.svc.Create(ctx, doc))

	require.NoError(t, f.svc.UpdateItem(ctx, &sale.SaleItem{ID: item.ID, ProductID: p.ID, Quantity: d("3")}))
	assert.True(t, d("7").Equal(f.products.Quantity(p.ID)))
	assert.Len(t, f.history.ForProduct(p.ID), 1)
}

func TestService_InsufficientStockLeavesStateUntouched(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	plenty := f.stock("Water", "100", "1")
	scarce := f.stock("Juice", "2", "5")

	doc := f.newSale("10")
	doc.Customer = &customer.Contact{Name: "Ali", PhoneNumber: "+998901234567"}
	doc.AddItem(plenty.ID, d("10"))
	doc.AddItem(scarce.ID, d("3"))

	err := f.svc.Create(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.True(t, d("100").Equal(f.products.Quantity(plenty.ID)))
	assert.True(t, d("2").Equal(f.products.Quantity(scarce.ID)))
	assert.Empty(t, f.history.All())
	assert.Zero(t, f.sales.ItemCount())
	assert.Zero(t, f.customers.Count())
	assert.Equal(t, 1, f.txm.Rollbacks)

	_, err = f.svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_UpdateItemBeyondStock(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Juice", "5", "5")

	doc := f.newSale("0")
	item := doc.AddItem(p.ID, d("3"))
	require.NoError(t, f.svc.Create(ctx, doc))

	// 2 left on hand; raising the line by 3 must fail
	err := f.svc.UpdateItem(ctx, &sale.SaleItem{ID: item.ID, ProductID: p.ID, Quantity: d("6")})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.True(t, d("2").Equal(f.products.Quantity(p.ID)))

	stored, err := f.sales.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, d("3").Equal(stored.Quantity))
}

func TestService_ItemRules(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Bread", "10", "4")
	other := f.stock("Milk", "10", "6")
	foreign := f.products.Put(product.NewProduct(id.New(), "Elsewhere", d("0"), d("1")))

	doc := f.newSale("0")
	item := doc.AddItem(p.ID, d("1"))
	require.NoError(t, f.svc.Create(ctx, doc))

	t.Run("product of a saved item is fixed", func(t *testing.T) {
		err := f.svc.UpdateItem(ctx, &sale.SaleItem{ID: item.ID, ProductID: other.ID, Quantity: d("1")})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("product from another branch", func(t *testing.T) {
		err := f.svc.AddItem(ctx, doc.ID, &sale.SaleItem{ProductID: foreign.ID, Quantity: d("1")})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		err := f.svc.AddItem(ctx, doc.ID, &sale.SaleItem{ProductID: p.ID, Quantity: d("0")})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("quantity rounding to zero", func(t *testing.T) {
		err := f.svc.AddItem(ctx, doc.ID, &sale.SaleItem{ProductID: p.ID, Quantity: d("0.0004")})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("unknown sale", func(t *testing.T) {
		err := f.svc.AddItem(ctx, id.New(), &sale.SaleItem{ProductID: p.ID, Quantity: d("1")})
		assert.True(t, apperror.IsNotFound(err))
	})

	assert.True(t, d("9").Equal(f.products.Quantity(p.ID)))
}

func TestService_CustomerDebt(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Rice", "100", "10")
	contact := customer.Contact{Name: " Vali ", PhoneNumber: "+998 90 123 45 67"}

	first := f.newSale("500")
	first.Customer = &contact
	first.AddItem(p.ID, d("60"))
	require.NoError(t, f.svc.Create(ctx, first))
	require.NotNil(t, first.CustomerID)
	customerID := *first.CustomerID
	assert.True(t, d("500").Equal(f.customers.Debt(customerID)))

	// the same buyer typed again resolves to the same customer
	second := f.newSale("50")
	second.Customer = &customer.Contact{Name: "Vali", PhoneNumber: "+998901234567"}
	second.AddItem(p.ID, d("5"))
	require.NoError(t, f.svc.Create(ctx, second))
	assert.Equal(t, customerID, *second.CustomerID)
	assert.Equal(t, 1, f.customers.Count())
	assert.True(t, d("550").Equal(f.customers.Debt(customerID)))

	update := &sale.Sale{Amount: d("450")}
	update.ID = first.ID
	require.NoError(t, f.svc.UpdatePayment(ctx, update))
	assert.True(t, d("500").Equal(f.customers.Debt(customerID)))
	assert.True(t, d("150").Equal(update.Discount))
	assert.Equal(t, first.Currency, update.Currency)

	require.NoError(t, f.svc.Delete(ctx, second.ID))
	assert.True(t, d("450").Equal(f.customers.Debt(customerID)))
	assert.True(t, d("40").Equal(f.products.Quantity(p.ID)))
}

func TestService_DeleteClampsDebtAtZero(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Rice", "100", "10")

	doc := f.newSale("300")
	doc.Customer = &customer.Contact{Name: "Olim", PhoneNumber: "+998901112233"}
	doc.AddItem(p.ID, d("30"))
	require.NoError(t, f.svc.Create(ctx, doc))

	// a later payment brought the debt below the sale amount
	require.NoError(t, f.customers.ReduceDebt(ctx, *doc.CustomerID, d("250")))

	require.NoError(t, f.svc.Delete(ctx, doc.ID))
	assert.True(t, f.customers.Debt(*doc.CustomerID).IsZero())
	assert.True(t, d("100").Equal(f.products.Quantity(p.ID)))
	assert.Zero(t, f.sales.ItemCount())

	entries := f.history.ForProduct(p.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, history.ChangeSaleCanceled, entries[1].ChangeType)
}

func TestService_UpdatePaymentRules(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	p := f.stock("Rice", "100", "10")

	doc := f.newSale("100")
	doc.Customer = &customer.Contact{Name: "Olim", PhoneNumber: "+998901112233"}
	doc.AddItem(p.ID, d("10"))
	require.NoError(t, f.svc.Create(ctx, doc))

	t.Run("customer cannot change", func(t *testing.T) {
		update := &sale.Sale{Amount: d("100"), CustomerID: id.Ptr(id.New())}
		update.ID = doc.ID
		err := f.svc.UpdatePayment(ctx, update)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		update := &sale.Sale{Amount: d("-1")}
		update.ID = doc.ID
		err := f.svc.UpdatePayment(ctx, update)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("currency switch", func(t *testing.T) {
		update := &sale.Sale{Amount: d("100")}
		update.ID = doc.ID
		update.Currency = "USD"
		require.NoError(t, f.svc.UpdatePayment(ctx, update))

		stored, err := f.sales.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.EqualValues(t, "USD", stored.Currency)
	})

	assert.True(t, d("100").Equal(f.customers.Debt(*doc.CustomerID)))
}

func TestService_PreviewTotal(t *testing.T) {
	ctx := logger.WithLogger(context.Background(), logger.NewNop())
	f := newFixture(t)
	bread := f.stock("Bread", "0", "4.5")
	milk := f.stock("Milk", "1", "12")

	total, err := f.svc.PreviewTotal(ctx, []sale.PreviewLine{
		{ProductID: bread.ID, Quantity: d("2")},
		{ProductID: milk.ID, Quantity: d("3")},
	})
	require.NoError(t, err)
	assert.True(t, d("45").Equal(total), "total: %s", total)
	assert.Empty(t, f.history.All())

	_, err = f.svc.PreviewTotal(ctx, []sale.PreviewLine{{ProductID: id.New(), Quantity: d("1")}})
	assert.True(t, apperror.IsNotFound(err))
}
