package investor

import (
	"context"
	"time"

	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
)

// Service provides business logic for the Investor registry.
type Service struct {
	*domain.CatalogService[*Investor]
}

// NewService creates a new Investor service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Investor]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "investor",
	})
	base.Hooks().OnBeforeCreate(func(ctx context.Context, i *Investor) error {
		if i.CreatedAt.IsZero() {
			i.CreatedAt = time.Now().UTC()
		}
		return nil
	})
	return &Service{CatalogService: base}
}
