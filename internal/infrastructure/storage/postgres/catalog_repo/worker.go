package catalog_repo

import (
	"storeledger/internal/domain/catalogs/worker"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ worker.Repository = (*WorkerRepo)(nil)

// WorkerRepo is the PostgreSQL implementation of worker.Repository.
type WorkerRepo struct {
	*BaseCatalogRepo[*worker.Worker]
}

// NewWorkerRepo creates a new worker repository.
func NewWorkerRepo(txManager *postgres.TxManager) *WorkerRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"workers",
		"Worker",
		postgres.ExtractDBColumns[worker.Worker](),
		func() *worker.Worker { return &worker.Worker{} },
	)
	base.preserve("created_at")
	return &WorkerRepo{BaseCatalogRepo: base}
}
