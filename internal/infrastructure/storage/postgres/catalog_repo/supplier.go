package catalog_repo

import (
	"storeledger/internal/domain/catalogs/supplier"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo is the PostgreSQL implementation of supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"suppliers",
		"Supplier",
		postgres.ExtractDBColumns[supplier.Supplier](),
		func() *supplier.Supplier { return &supplier.Supplier{} },
	)
	base.preserve("created_at")
	return &SupplierRepo{BaseCatalogRepo: base}
}
