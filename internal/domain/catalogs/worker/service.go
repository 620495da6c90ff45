package worker

import (
	"context"
	"time"

	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
)

// Service provides business logic for the Worker registry.
type Service struct {
	*domain.CatalogService[*Worker]
}

// NewService creates a new Worker service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Worker]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "worker",
	})
	base.Hooks().OnBeforeCreate(func(ctx context.Context, w *Worker) error {
		if w.CreatedAt.IsZero() {
			w.CreatedAt = time.Now().UTC()
		}
		return nil
	})
	return &Service{CatalogService: base}
}
