package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
	"storeledger/pkg/logger"
)

// Service provides business logic for the Customer registry.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Debt only moves through sales; an update keeps the stored value.
func (s *Service) prepareForUpdate(ctx context.Context, c *Customer) error {
	current, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Debt = current.Debt
	return nil
}

// FindOrCreate returns the customer of the branch with the given name and
// phone number, creating one with zero debt when there is none.
func (s *Service) FindOrCreate(ctx context.Context, branchID id.ID, contact Contact) (*Customer, error) {
	if id.IsNil(branchID) {
		return nil, apperror.NewValidation("branch is required").WithDetail("field", "branchId")
	}

	key, err := contact.Normalize()
	if err != nil {
		return nil, err
	}
	if key.Name == "" {
		return nil, apperror.NewValidation("customer name is required").WithDetail("field", "name")
	}

	var result *Customer
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByContact(ctx, branchID, key)
		if err == nil {
			result = existing
			return nil
		}
		if !apperror.IsNotFound(err) {
			return fmt.Errorf("find customer: %w", err)
		}

		created := NewCustomer(branchID, key)
		if err := s.Create(ctx, created); err != nil {
			return err
		}
		logger.Info(ctx, "customer created", "customer_id", created.ID, "branch_id", branchID)
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AdjustDebt moves a customer's debt by delta. A zero delta is a no-op.
func (s *Service) AdjustDebt(ctx context.Context, customerID id.ID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	if err := s.repo.AdjustDebt(ctx, customerID, delta); err != nil {
		return fmt.Errorf("adjust customer debt: %w", err)
	}
	return nil
}

// ReduceDebt removes amount from a customer's debt, stopping at zero.
func (s *Service) ReduceDebt(ctx context.Context, customerID id.ID, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.repo.ReduceDebt(ctx, customerID, amount); err != nil {
		return fmt.Errorf("reduce customer debt: %w", err)
	}
	return nil
}
