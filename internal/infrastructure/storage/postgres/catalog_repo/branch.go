package catalog_repo

import (
	"storeledger/internal/domain/catalogs/branch"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ branch.Repository = (*BranchRepo)(nil)

// BranchRepo is the PostgreSQL implementation of branch.Repository.
type BranchRepo struct {
	*BaseCatalogRepo[*branch.Branch]
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txManager *postgres.TxManager) *BranchRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"branches",
		"Branch",
		postgres.ExtractDBColumns[branch.Branch](),
		func() *branch.Branch { return &branch.Branch{} },
	)
	return &BranchRepo{BaseCatalogRepo: base}
}
