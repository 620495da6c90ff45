package expense

import (
	"context"
	"time"

	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
)

// Service provides business logic for the Expense registry.
type Service struct {
	*domain.CatalogService[*Expense]
}

// NewService creates a new Expense service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Expense]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "expense",
	})
	base.Hooks().OnBeforeCreate(func(ctx context.Context, e *Expense) error {
		if e.IncurredAt.IsZero() {
			e.IncurredAt = time.Now().UTC()
		}
		return nil
	})
	return &Service{CatalogService: base}
}
