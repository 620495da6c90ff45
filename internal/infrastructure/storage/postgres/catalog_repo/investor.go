package catalog_repo

import (
	"storeledger/internal/domain/catalogs/investor"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ investor.Repository = (*InvestorRepo)(nil)

// InvestorRepo is the PostgreSQL implementation of investor.Repository.
type InvestorRepo struct {
	*BaseCatalogRepo[*investor.Investor]
}

// NewInvestorRepo creates a new investor repository.
func NewInvestorRepo(txManager *postgres.TxManager) *InvestorRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"investors",
		"Investor",
		postgres.ExtractDBColumns[investor.Investor](),
		func() *investor.Investor { return &investor.Investor{} },
	)
	base.preserve("created_at")
	return &InvestorRepo{BaseCatalogRepo: base}
}
