package ledger

import (
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/types"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/registers/history"
)

// PurchaseInput is a purchase item as entered: quantity and price are in the
// product's input unit (kg for kg products, pieces otherwise).
type PurchaseInput struct {
	InputQuantity decimal.Decimal
	Price         decimal.Decimal

	// PreviousAddedQuantity is the stored added quantity of the item being
	// edited, zero for a new item.
	PreviousAddedQuantity decimal.Decimal
}

// PurchaseResult holds the derived item values and the writes they cause.
type PurchaseResult struct {
	AddedQuantity decimal.Decimal
	UnitCostPrice decimal.Decimal
	TotalPrice    decimal.Decimal

	// Delta is AddedQuantity minus the previous added quantity.
	Delta decimal.Decimal

	Mutations MutationSet
}

// ApplyPurchaseItem converts a purchase item into base units and derives the
// stock writes.
//
// A kg product multiplies the input quantity by kg_to_pcs and divides the
// price by it; a piece product passes both through. The product's cost price
// is always overwritten with the new unit cost. Stock moves by the difference
// to the previous added quantity, recorded as "Qo'shildi" when it grows and
// "O'chirildi" when it shrinks. An edit that leaves the added quantity
// unchanged moves no stock and writes no History row.
func ApplyPurchaseItem(p *product.Product, in PurchaseInput) (PurchaseResult, error) {
	if !in.InputQuantity.IsPositive() {
		return PurchaseResult{}, apperror.NewValidation("input quantity must be positive").
			WithDetail("field", "inputQuantity").
			WithDetail("value", in.InputQuantity.String())
	}
	if in.Price.IsNegative() {
		return PurchaseResult{}, apperror.NewValidation("price must not be negative").
			WithDetail("field", "price").
			WithDetail("value", in.Price.String())
	}

	factor, err := p.ConversionFactor()
	if err != nil {
		return PurchaseResult{}, err
	}

	added := types.RoundQuantity(in.InputQuantity.Mul(factor))
	if !added.IsPositive() {
		return PurchaseResult{}, apperror.NewValidation("input quantity rounds to zero").
			WithDetail("field", "inputQuantity").
			WithDetail("value", in.InputQuantity.String())
	}
	unitCost := in.Price.DivRound(factor, types.UnitCostScale)
	total := types.RoundMoney(added.Mul(unitCost))

	res := PurchaseResult{
		AddedQuantity: added,
		UnitCostPrice: unitCost,
		TotalPrice:    total,
		Delta:         added.Sub(in.PreviousAddedQuantity),
	}

	res.Mutations.CostPrice = &CostPriceChange{ProductID: p.ID, UnitCostPrice: unitCost}

	if res.Delta.IsZero() {
		return res, nil
	}

	changeType := history.ChangeAdded
	if res.Delta.IsNegative() {
		changeType = history.ChangeRemoved
	}
	res.Mutations.Stock = []StockChange{{ProductID: p.ID, Delta: res.Delta}}
	res.Mutations.History = []HistoryRecord{{
		ProductID:  p.ID,
		ChangeType: changeType,
		Quantity:   res.Delta.Abs(),
	}}

	return res, nil
}

// ReversePurchaseItem undoes a deleted purchase item: the added quantity
// leaves stock and is recorded as "O'chirildi". Stock is not guarded here;
// goods already sold can take the product below zero.
func ReversePurchaseItem(productID id.ID, addedQuantity decimal.Decimal) MutationSet {
	if addedQuantity.IsZero() {
		return MutationSet{}
	}
	return MutationSet{
		Stock: []StockChange{{ProductID: productID, Delta: addedQuantity.Neg()}},
		History: []HistoryRecord{{
			ProductID:  productID,
			ChangeType: history.ChangeRemoved,
			Quantity:   addedQuantity.Abs(),
		}},
	}
}
