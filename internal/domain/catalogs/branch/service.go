package branch

import (
	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
)

// Service provides business logic for the Branch registry.
type Service struct {
	*domain.CatalogService[*Branch]
}

// NewService creates a new Branch service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Branch]{
			Repo:       repo,
			TxManager:  txManager,
			Audit:      audit,
			EntityName: "branch",
		}),
	}
}
