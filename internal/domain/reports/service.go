package reports

import (
	"context"
	"fmt"
	"time"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/tx"
	"storeledger/pkg/logger"
)

// Service creates and reads daily reports.
type Service struct {
	repo      Repository
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create computes the four sums for a branch and window and stores them as
// a new report.
func (s *Service) Create(ctx context.Context, branchID id.ID, window Window) (*DailyReport, error) {
	if id.IsNil(branchID) {
		return nil, apperror.NewValidation("branch is required").WithDetail("field", "branchId")
	}
	if window.Start.IsZero() || window.End.IsZero() {
		return nil, apperror.NewValidation("start and end are required")
	}
	if window.Start.After(window.End) {
		return nil, apperror.NewValidation("start is after end").
			WithDetail("start", window.Start).
			WithDetail("end", window.End)
	}

	report := &DailyReport{
		ID:            id.New(),
		BranchID:      branchID,
		StartDatetime: window.Start,
		EndDatetime:   window.End,
		CreatedAt:     s.now(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sales, err := s.repo.SumSales(ctx, branchID, window)
		if err != nil {
			return fmt.Errorf("sum sales: %w", err)
		}
		report.TotalSales = sales.TotalSales
		report.TotalDiscounts = sales.TotalDiscounts

		if report.TotalPurchase, err = s.repo.SumPurchases(ctx, branchID, window); err != nil {
			return fmt.Errorf("sum purchases: %w", err)
		}

		if report.TotalDebt, err = s.repo.SumCustomerDebt(ctx, branchID); err != nil {
			return fmt.Errorf("sum customer debt: %w", err)
		}

		if err := s.repo.Create(ctx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "daily report created",
		"id", report.ID,
		"branch_id", branchID,
		"total_sales", report.TotalSales.String(),
		"total_purchase", report.TotalPurchase.String())
	return report, nil
}

// GetByID retrieves a stored report.
func (s *Service) GetByID(ctx context.Context, reportID id.ID) (*DailyReport, error) {
	return s.repo.GetByID(ctx, reportID)
}

// List retrieves stored reports, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*DailyReport, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
