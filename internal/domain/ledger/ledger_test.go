package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/registers/history"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pcsProduct(qty, salePrice string) *product.Product {
	p := product.NewProduct(id.New(), "Cola 0.5", d("0"), d(salePrice))
	p.Quantity = d(qty)
	return p
}

func kgProduct(qty string, factor *decimal.Decimal) *product.Product {
	p := product.NewProduct(id.New(), "Sugar", d("0"), d("2"))
	p.BaseUnit = product.UnitKilogram
	p.Quantity = d(qty)
	if factor != nil {
		p.KgToPcs = decimal.NewNullDecimal(*factor)
	}
	return p
}

func TestApplyPurchaseItem_Conversion(t *testing.T) {
	ten := d("10")

	tests := []struct {
		name      string
		product   *product.Product
		in        PurchaseInput
		wantAdded string
		wantUnit  string
		wantTotal string
	}{
		{
			name:      "kg product converts quantity and price",
			product:   kgProduct("0", &ten),
			in:        PurchaseInput{InputQuantity: d("5"), Price: d("100")},
			wantAdded: "50",
			wantUnit:  "10",
			wantTotal: "500",
		},
		{
			name:      "pcs product passes through",
			product:   pcsProduct("0", "3"),
			in:        PurchaseInput{InputQuantity: d("12"), Price: d("2.5")},
			wantAdded: "12",
			wantUnit:  "2.5",
			wantTotal: "30",
		},
		{
			name:      "fractional kg",
			product:   kgProduct("0", &ten),
			in:        PurchaseInput{InputQuantity: d("0.25"), Price: d("7")},
			wantAdded: "2.5",
			wantUnit:  "0.7",
			wantTotal: "1.75",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ApplyPurchaseItem(tt.product, tt.in)
			require.NoError(t, err)

			assert.True(t, d(tt.wantAdded).Equal(res.AddedQuantity), "added: %s", res.AddedQuantity)
			assert.True(t, d(tt.wantUnit).Equal(res.UnitCostPrice), "unit cost: %s", res.UnitCostPrice)
			assert.True(t, d(tt.wantTotal).Equal(res.TotalPrice), "total: %s", res.TotalPrice)

			require.NotNil(t, res.Mutations.CostPrice)
			assert.True(t, res.UnitCostPrice.Equal(res.Mutations.CostPrice.UnitCostPrice))

			require.Len(t, res.Mutations.Stock, 1)
			assert.True(t, res.AddedQuantity.Equal(res.Mutations.Stock[0].Delta))
			assert.False(t, res.Mutations.Stock[0].Guarded)

			require.Len(t, res.Mutations.History, 1)
			assert.Equal(t, history.ChangeAdded, res.Mutations.History[0].ChangeType)
			assert.True(t, res.AddedQuantity.Equal(res.Mutations.History[0].Quantity))
		})
	}
}

func TestApplyPurchaseItem_MissingConversionFactor(t *testing.T) {
	res, err := ApplyPurchaseItem(kgProduct("0", nil), PurchaseInput{InputQuantity: d("1"), Price: d("5")})

	require.Error(t, err)
	assert.True(t, apperror.IsMissingConversionFactor(err))
	assert.True(t, res.Mutations.IsEmpty())
}

func TestApplyPurchaseItem_EditShrinks(t *testing.T) {
	p := pcsProduct("100", "3")

	res, err := ApplyPurchaseItem(p, PurchaseInput{
		InputQuantity:         d("30"),
		Price:                 d("2"),
		PreviousAddedQuantity: d("40"),
	})
	require.NoError(t, err)

	assert.True(t, d("-10").Equal(res.Delta))
	require.Len(t, res.Mutations.Stock, 1)
	assert.True(t, d("-10").Equal(res.Mutations.Stock[0].Delta))
	require.Len(t, res.Mutations.History, 1)
	assert.Equal(t, history.ChangeRemoved, res.Mutations.History[0].ChangeType)
	assert.True(t, d("10").Equal(res.Mutations.History[0].Quantity))
}

// A purchase edit that keeps the added quantity still overwrites the cost
// price but writes no History row, the same as a sale edit.
func TestApplyPurchaseItem_ZeroDeltaSkipsHistory(t *testing.T) {
	p := pcsProduct("40", "3")

	res, err := ApplyPurchaseItem(p, PurchaseInput{
		InputQuantity:         d("40"),
		Price:                 d("2.2"),
		PreviousAddedQuantity: d("40"),
	})
	require.NoError(t, err)

	assert.True(t, res.Delta.IsZero())
	require.NotNil(t, res.Mutations.CostPrice)
	assert.True(t, d("2.2").Equal(res.Mutations.CostPrice.UnitCostPrice))
	assert.Empty(t, res.Mutations.Stock)
	assert.Empty(t, res.Mutations.History)
}

func TestApplyPurchaseItem_RejectsBadInput(t *testing.T) {
	p := pcsProduct("0", "3")

	_, err := ApplyPurchaseItem(p, PurchaseInput{InputQuantity: d("0"), Price: d("1")})
	assert.True(t, apperror.IsValidation(err))

	_, err = ApplyPurchaseItem(p, PurchaseInput{InputQuantity: d("1"), Price: d("-1")})
	assert.True(t, apperror.IsValidation(err))
}

func TestApplyPurchaseItem_RoundsBeforeChecking(t *testing.T) {
	_, err := ApplyPurchaseItem(pcsProduct("0", "3"), PurchaseInput{InputQuantity: d("0.0004"), Price: d("1")})
	assert.True(t, apperror.IsValidation(err))

	factor := d("1000")
	res, err := ApplyPurchaseItem(kgProduct("0", &factor), PurchaseInput{InputQuantity: d("0.0004"), Price: d("1000")})
	require.NoError(t, err)
	assert.True(t, d("0.4").Equal(res.AddedQuantity))
}

func TestApplySaleItem(t *testing.T) {
	tests := []struct {
		name        string
		onHand      string
		in          SaleInput
		wantTotal   string
		wantDelta   string
		wantStock   string
		wantGuarded bool
		wantChange  history.ChangeType
		wantHistory string
	}{
		{
			name:        "new item sells",
			onHand:      "50",
			in:          SaleInput{Quantity: d("3")},
			wantTotal:   "7.5",
			wantDelta:   "3",
			wantStock:   "-3",
			wantGuarded: true,
			wantChange:  history.ChangeSold,
			wantHistory: "3",
		},
		{
			name:        "edit up sells the difference",
			onHand:      "47",
			in:          SaleInput{Quantity: d("5"), PreviousQuantity: d("3")},
			wantTotal:   "12.5",
			wantDelta:   "2",
			wantStock:   "-2",
			wantGuarded: true,
			wantChange:  history.ChangeSold,
			wantHistory: "2",
		},
		{
			name:        "edit down returns the difference",
			onHand:      "45",
			in:          SaleInput{Quantity: d("1"), PreviousQuantity: d("5")},
			wantTotal:   "2.5",
			wantDelta:   "-4",
			wantStock:   "4",
			wantGuarded: false,
			wantChange:  history.ChangeSaleCanceled,
			wantHistory: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pcsProduct(tt.onHand, "2.5")

			res, err := ApplySaleItem(p, tt.in)
			require.NoError(t, err)

			assert.True(t, d(tt.wantTotal).Equal(res.TotalPrice), "total: %s", res.TotalPrice)
			assert.True(t, d(tt.wantDelta).Equal(res.Delta), "delta: %s", res.Delta)

			require.Len(t, res.Mutations.Stock, 1)
			assert.True(t, d(tt.wantStock).Equal(res.Mutations.Stock[0].Delta))
			assert.Equal(t, tt.wantGuarded, res.Mutations.Stock[0].Guarded)

			require.Len(t, res.Mutations.History, 1)
			assert.Equal(t, tt.wantChange, res.Mutations.History[0].ChangeType)
			assert.True(t, d(tt.wantHistory).Equal(res.Mutations.History[0].Quantity))
			assert.Nil(t, res.Mutations.CostPrice)
		})
	}
}

func TestApplySaleItem_UnchangedQuantity(t *testing.T) {
	p := pcsProduct("0", "2.5")

	res, err := ApplySaleItem(p, SaleInput{Quantity: d("4"), PreviousQuantity: d("4")})
	require.NoError(t, err)

	assert.True(t, d("10").Equal(res.TotalPrice))
	assert.True(t, res.Mutations.IsEmpty())
}

func TestApplySaleItem_InsufficientStock(t *testing.T) {
	p := pcsProduct("2", "5")

	res, err := ApplySaleItem(p, SaleInput{Quantity: d("3")})

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.True(t, res.Mutations.IsEmpty())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "3", appErr.Details["requested"])
	assert.Equal(t, "2", appErr.Details["available"])
}

func TestApplySaleItem_RoundsBeforeChecking(t *testing.T) {
	p := pcsProduct("5", "2")

	res, err := ApplySaleItem(p, SaleInput{Quantity: d("0.0004")})
	assert.True(t, apperror.IsValidation(err))
	assert.True(t, res.Mutations.IsEmpty())

	res, err = ApplySaleItem(p, SaleInput{Quantity: d("0.0006")})
	require.NoError(t, err)
	assert.True(t, d("0.001").Equal(res.Delta))
}

func TestApplySaleItem_ExactStock(t *testing.T) {
	p := pcsProduct("3", "5")

	_, err := ApplySaleItem(p, SaleInput{Quantity: d("3")})
	assert.NoError(t, err)
}

func TestReversal(t *testing.T) {
	productID := id.New()

	sale := ReverseSaleItem(productID, d("3"))
	require.Len(t, sale.Stock, 1)
	assert.True(t, d("3").Equal(sale.Stock[0].Delta))
	require.Len(t, sale.History, 1)
	assert.Equal(t, history.ChangeSaleCanceled, sale.History[0].ChangeType)
	assert.True(t, d("3").Equal(sale.History[0].Quantity))

	purchase := ReversePurchaseItem(productID, d("50"))
	require.Len(t, purchase.Stock, 1)
	assert.True(t, d("-50").Equal(purchase.Stock[0].Delta))
	assert.False(t, purchase.Stock[0].Guarded)
	require.Len(t, purchase.History, 1)
	assert.Equal(t, history.ChangeRemoved, purchase.History[0].ChangeType)
	assert.True(t, d("50").Equal(purchase.History[0].Quantity))

	assert.True(t, ReverseSaleItem(productID, d("0")).IsEmpty())
}

func TestRecalculateSale(t *testing.T) {
	tests := []struct {
		name         string
		items        []string
		amount       string
		wantTotal    string
		wantDiscount string
	}{
		{name: "partly paid", items: []string{"5", "5"}, amount: "8", wantTotal: "10", wantDiscount: "2"},
		{name: "overpaid", items: []string{"10"}, amount: "12", wantTotal: "10", wantDiscount: "0"},
		{name: "no items", items: nil, amount: "0", wantTotal: "0", wantDiscount: "0"},
		{name: "no items but paid", items: nil, amount: "3", wantTotal: "0", wantDiscount: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := make([]decimal.Decimal, 0, len(tt.items))
			for _, v := range tt.items {
				totals = append(totals, d(v))
			}

			got := RecalculateSale(totals, d(tt.amount))
			assert.True(t, d(tt.wantTotal).Equal(got.TotalPrice), "total: %s", got.TotalPrice)
			assert.True(t, d(tt.wantDiscount).Equal(got.Discount), "discount: %s", got.Discount)
			assert.False(t, got.Discount.IsNegative())
		})
	}
}

func TestDebtHelpers(t *testing.T) {
	assert.True(t, d("30").Equal(DebtDelta(d("70"), d("100"))))
	assert.True(t, d("-20").Equal(DebtDelta(d("100"), d("80"))))

	assert.True(t, d("0").Equal(DebtAfterSaleDeletion(d("50"), d("80"))))
	assert.True(t, d("20").Equal(DebtAfterSaleDeletion(d("100"), d("80"))))
}

func TestMutationSet_Entries(t *testing.T) {
	productID := id.New()
	set := ReversePurchaseItem(productID, d("2"))

	branchID := id.New()
	workerID := id.New()
	entries := set.Entries(branchID, &workerID)
	require.Len(t, entries, 1)
	assert.Equal(t, branchID, entries[0].BranchID)
	assert.Equal(t, &workerID, entries[0].WorkerID)
	assert.Equal(t, productID, entries[0].ProductID)
	assert.Equal(t, history.ChangeRemoved, entries[0].ChangeType)
	assert.False(t, entries[0].IsStored())
}
