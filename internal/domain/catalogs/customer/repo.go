package customer

import (
	"context"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
	"storeledger/internal/domain"
)

// Repository defines the interface for Customer persistence.
// Debt is never written through Update; the debt methods issue relative updates.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByContact looks a customer up by its natural key within a branch.
	// Returns a NotFound AppError when there is none.
	FindByContact(ctx context.Context, branchID id.ID, contact Contact) (*Customer, error)

	// AdjustDebt applies debt = debt + delta.
	AdjustDebt(ctx context.Context, customerID id.ID, delta decimal.Decimal) error

	// ReduceDebt applies debt = GREATEST(debt - amount, 0).
	ReduceDebt(ctx context.Context, customerID id.ID, amount decimal.Decimal) error
}
