package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/id"
	"storeledger/internal/domain/reports"
)

func testWindow() reports.Window {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return reports.Window{Start: start, End: start.Add(24*time.Hour - time.Second)}
}

func TestReportRepo_SalesQuery(t *testing.T) {
	repo := NewReportRepo(nil)
	branchID := id.New()
	window := testWindow()

	sql, args, err := repo.salesQuery(branchID, window).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COALESCE(SUM(total_price), 0) AS total_sales, COALESCE(SUM(discount), 0) AS total_discounts "+
			"FROM sales WHERE branch_id = $1 AND sold_at >= $2 AND sold_at <= $3",
		sql)
	assert.Equal(t, []any{branchID.String(), window.Start, window.End}, args)
}

func TestReportRepo_PurchasesQueryScopesByBatchBranch(t *testing.T) {
	repo := NewReportRepo(nil)
	branchID := id.New()

	sql, _, err := repo.purchasesQuery(branchID, testWindow()).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COALESCE(SUM(i.total_price), 0) FROM add_product_items i "+
			"JOIN add_products a ON a.id = i.add_product_id "+
			"WHERE a.branch_id = $1 AND i.added_at >= $2 AND i.added_at <= $3",
		sql)
}
