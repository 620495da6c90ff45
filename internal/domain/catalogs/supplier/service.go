package supplier

import (
	"context"
	"time"

	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
)

// Service provides business logic for the Supplier registry.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "supplier",
	})
	base.Hooks().OnBeforeCreate(func(ctx context.Context, s *Supplier) error {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		return nil
	})
	return &Service{CatalogService: base}
}
