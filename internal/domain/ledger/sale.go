package ledger

import (
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/types"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/registers/history"
)

// SaleInput is a sale item as entered, in base units.
type SaleInput struct {
	Quantity decimal.Decimal

	// PreviousQuantity is the stored quantity of the item being edited,
	// zero for a new item.
	PreviousQuantity decimal.Decimal
}

// SaleResult holds the derived item values and the writes they cause.
type SaleResult struct {
	TotalPrice decimal.Decimal

	// Delta is Quantity minus the previous quantity.
	Delta decimal.Decimal

	Mutations MutationSet
}

// ApplySaleItem prices a sale item at the product's current sale price and
// derives the stock writes.
//
// Only the change against the previous quantity is checked against stock, so
// editing an item down or leaving it unchanged never fails. A growing item is
// a guarded decrement recorded as "Sotildi". A shrinking item returns the
// difference to stock and is recorded as "Sotuv bekor qilindi". An unchanged
// quantity moves nothing.
func ApplySaleItem(p *product.Product, in SaleInput) (SaleResult, error) {
	qty := types.RoundQuantity(in.Quantity)
	if !qty.IsPositive() {
		return SaleResult{}, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", in.Quantity.String())
	}

	res := SaleResult{
		TotalPrice: types.RoundMoney(qty.Mul(p.SalePrice)),
		Delta:      qty.Sub(in.PreviousQuantity),
	}

	switch {
	case res.Delta.IsPositive():
		if p.Quantity.LessThan(res.Delta) {
			return SaleResult{}, apperror.NewInsufficientStock(p.ID.String(), res.Delta.String(), p.Quantity.String())
		}
		res.Mutations = MutationSet{
			Stock: []StockChange{{ProductID: p.ID, Delta: res.Delta.Neg(), Guarded: true}},
			History: []HistoryRecord{{
				ProductID:  p.ID,
				ChangeType: history.ChangeSold,
				Quantity:   res.Delta,
			}},
		}
	case res.Delta.IsNegative():
		res.Mutations = MutationSet{
			Stock: []StockChange{{ProductID: p.ID, Delta: res.Delta.Neg()}},
			History: []HistoryRecord{{
				ProductID:  p.ID,
				ChangeType: history.ChangeSaleCanceled,
				Quantity:   res.Delta.Abs(),
			}},
		}
	}

	return res, nil
}

// ReverseSaleItem undoes a deleted sale item: its quantity returns to stock
// and is recorded as "Sotuv bekor qilindi".
func ReverseSaleItem(productID id.ID, quantity decimal.Decimal) MutationSet {
	if quantity.IsZero() {
		return MutationSet{}
	}
	return MutationSet{
		Stock: []StockChange{{ProductID: productID, Delta: quantity.Abs()}},
		History: []HistoryRecord{{
			ProductID:  productID,
			ChangeType: history.ChangeSaleCanceled,
			Quantity:   quantity.Abs(),
		}},
	}
}

// SaleTotals are the derived money fields of a sale header.
type SaleTotals struct {
	TotalPrice decimal.Decimal
	Discount   decimal.Decimal
}

// RecalculateSale sums the item totals and derives the discount as the
// unpaid part of the total, never below zero.
func RecalculateSale(itemTotals []decimal.Decimal, amount decimal.Decimal) SaleTotals {
	total := types.RoundMoney(types.Sum(itemTotals...))
	return SaleTotals{
		TotalPrice: total,
		Discount:   Discount(total, amount),
	}
}

// Discount returns max(total - amount, 0).
func Discount(total, amount decimal.Decimal) decimal.Decimal {
	return types.RoundMoney(types.ClampZero(total.Sub(amount)))
}

// DebtDelta is how much a customer's debt moves when a sale's amount
// changes from oldAmount to newAmount.
func DebtDelta(oldAmount, newAmount decimal.Decimal) decimal.Decimal {
	return newAmount.Sub(oldAmount)
}

// DebtAfterSaleDeletion removes a deleted sale's amount from a debt,
// never below zero.
func DebtAfterSaleDeletion(debt, amount decimal.Decimal) decimal.Decimal {
	return types.ClampZero(debt.Sub(amount))
}
