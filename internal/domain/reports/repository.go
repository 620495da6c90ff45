package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
)

// Repository defines report data access. The sum queries return zero when
// no rows match.
type Repository interface {
	SumSales(ctx context.Context, branchID id.ID, window Window) (SalesTotals, error)
	SumPurchases(ctx context.Context, branchID id.ID, window Window) (decimal.Decimal, error)
	SumCustomerDebt(ctx context.Context, branchID id.ID) (decimal.Decimal, error)

	Create(ctx context.Context, report *DailyReport) error
	GetByID(ctx context.Context, reportID id.ID) (*DailyReport, error)
	List(ctx context.Context, filter ListFilter) ([]*DailyReport, error)
}
