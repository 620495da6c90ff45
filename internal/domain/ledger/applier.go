package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/registers/history"
)

// StockWriter performs relative writes on product rows.
// It is implemented by the product repository.
type StockWriter interface {
	AddQuantity(ctx context.Context, productID id.ID, delta decimal.Decimal) (decimal.Decimal, error)
	SubtractQuantity(ctx context.Context, productID id.ID, qty decimal.Decimal) (decimal.Decimal, bool, error)
	SetCostPrice(ctx context.Context, productID id.ID, price decimal.Decimal) error
}

// HistoryAppender stores new History entries.
type HistoryAppender interface {
	Append(ctx context.Context, entry *history.Entry) error
}

// Scope names the document a mutation set belongs to; its branch and worker
// are stamped on every History row.
type Scope struct {
	BranchID id.ID
	WorkerID *id.ID
}

// Applier writes mutation sets. It must be called inside the transaction
// that also stores the item, so a failed write discards everything.
type Applier struct {
	stock   StockWriter
	history HistoryAppender
}

// NewApplier creates an Applier.
func NewApplier(stock StockWriter, history HistoryAppender) *Applier {
	return &Applier{stock: stock, history: history}
}

// Apply writes the cost price, then the stock changes, then the History rows.
func (a *Applier) Apply(ctx context.Context, scope Scope, set MutationSet) error {
	if set.CostPrice != nil {
		if err := a.stock.SetCostPrice(ctx, set.CostPrice.ProductID, set.CostPrice.UnitCostPrice); err != nil {
			return fmt.Errorf("set cost price: %w", err)
		}
	}

	for _, change := range set.Stock {
		if err := a.applyStock(ctx, change); err != nil {
			return err
		}
	}

	for _, entry := range set.Entries(scope.BranchID, scope.WorkerID) {
		if err := a.history.Append(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

func (a *Applier) applyStock(ctx context.Context, change StockChange) error {
	if change.Guarded && change.Delta.IsNegative() {
		qty := change.Delta.Neg()
		remaining, ok, err := a.stock.SubtractQuantity(ctx, change.ProductID, qty)
		if err != nil {
			return fmt.Errorf("subtract stock: %w", err)
		}
		if !ok {
			// A concurrent sale took the stock between the check and the write.
			return apperror.NewInsufficientStock(change.ProductID.String(), qty.String(), remaining.String())
		}
		return nil
	}

	if _, err := a.stock.AddQuantity(ctx, change.ProductID, change.Delta); err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}
