// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/reports"
	"storeledger/internal/infrastructure/storage/postgres"
)

const dailyReportsTable = "daily_reports"

var dailyReportColumns = postgres.ExtractDBColumns[reports.DailyReport]()

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) salesQuery(branchID id.ID, window reports.Window) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"COALESCE(SUM(total_price), 0) AS total_sales",
			"COALESCE(SUM(discount), 0) AS total_discounts",
		).
		From("sales").
		Where(squirrel.Eq{"branch_id": branchID}).
		Where(squirrel.GtOrEq{"sold_at": window.Start}).
		Where(squirrel.LtOrEq{"sold_at": window.End})
}

// SumSales totals sale prices and discounts sold inside the window.
func (r *ReportRepo) SumSales(ctx context.Context, branchID id.ID, window reports.Window) (reports.SalesTotals, error) {
	var totals reports.SalesTotals

	sql, args, err := r.salesQuery(branchID, window).ToSql()
	if err != nil {
		return totals, fmt.Errorf("build sales sum: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return totals, fmt.Errorf("sum sales: %w", err)
	}
	return totals, nil
}

func (r *ReportRepo) purchasesQuery(branchID id.ID, window reports.Window) squirrel.SelectBuilder {
	return r.builder.
		Select("COALESCE(SUM(i.total_price), 0)").
		From("add_product_items i").
		Join("add_products a ON a.id = i.add_product_id").
		Where(squirrel.Eq{"a.branch_id": branchID}).
		Where(squirrel.GtOrEq{"i.added_at": window.Start}).
		Where(squirrel.LtOrEq{"i.added_at": window.End})
}

// SumPurchases totals purchase item prices added inside the window.
func (r *ReportRepo) SumPurchases(ctx context.Context, branchID id.ID, window reports.Window) (decimal.Decimal, error) {
	sql, args, err := r.purchasesQuery(branchID, window).ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build purchase sum: %w", err)
	}

	var total decimal.Decimal
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum purchases: %w", err)
	}
	return total, nil
}

// SumCustomerDebt totals the current debt of the branch's customers.
func (r *ReportRepo) SumCustomerDebt(ctx context.Context, branchID id.ID) (decimal.Decimal, error) {
	sql, args, err := r.builder.
		Select("COALESCE(SUM(debt), 0)").
		From("customers").
		Where(squirrel.Eq{"branch_id": branchID}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build debt sum: %w", err)
	}

	var total decimal.Decimal
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum customer debt: %w", err)
	}
	return total, nil
}

// Create stores a computed report.
func (r *ReportRepo) Create(ctx context.Context, report *reports.DailyReport) error {
	data := postgres.FilterColumns(postgres.StructToMap(report), dailyReportColumns)

	sql, args, err := r.builder.Insert(dailyReportsTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert daily report: %w", postgres.MapWriteError(err, "DailyReport"))
	}
	return nil
}

// GetByID retrieves a stored report.
func (r *ReportRepo) GetByID(ctx context.Context, reportID id.ID) (*reports.DailyReport, error) {
	sql, args, err := r.builder.
		Select(dailyReportColumns...).
		From(dailyReportsTable).
		Where(squirrel.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var report reports.DailyReport
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &report, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("DailyReport", reportID.String())
		}
		return nil, fmt.Errorf("get daily report: %w", err)
	}
	return &report, nil
}

// List returns stored reports newest first.
func (r *ReportRepo) List(ctx context.Context, filter reports.ListFilter) ([]*reports.DailyReport, error) {
	q := r.builder.
		Select(dailyReportColumns...).
		From(dailyReportsTable).
		OrderBy("created_at DESC")

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*reports.DailyReport
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list daily reports: %w", err)
	}
	return out, nil
}
