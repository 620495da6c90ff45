// Package reports provides the periodic financial rollup of a branch.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
)

// DailyReport is a snapshot of a branch's money over a closed window.
// It is computed once when created and never recomputed.
type DailyReport struct {
	ID            id.ID     `db:"id" json:"id"`
	BranchID      id.ID     `db:"branch_id" json:"branchId"`
	StartDatetime time.Time `db:"start_datetime" json:"startDatetime"`
	EndDatetime   time.Time `db:"end_datetime" json:"endDatetime"`

	// TotalSales and TotalDiscounts sum the sales sold inside the window
	TotalSales     decimal.Decimal `db:"total_sales" json:"totalSales"`
	TotalDiscounts decimal.Decimal `db:"total_discounts" json:"totalDiscounts"`

	// TotalPurchase sums purchase items added inside the window
	TotalPurchase decimal.Decimal `db:"total_purchase" json:"totalPurchase"`

	// TotalDebt is the branch's customer debt when the report was made
	TotalDebt decimal.Decimal `db:"total_debt" json:"totalDebt"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Window is a closed time range [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// SalesTotals are the sums over sales in a window.
type SalesTotals struct {
	TotalSales     decimal.Decimal `db:"total_sales"`
	TotalDiscounts decimal.Decimal `db:"total_discounts"`
}

// ListFilter selects stored reports.
type ListFilter struct {
	BranchID *id.ID
	Limit    int
	Offset   int
}
