package worker

import (
	"storeledger/internal/domain"
)

// Repository defines the interface for Worker persistence.
type Repository interface {
	domain.CatalogRepository[*Worker]
}
