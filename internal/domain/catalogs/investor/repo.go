package investor

import (
	"storeledger/internal/domain"
)

// Repository defines the interface for Investor persistence.
type Repository interface {
	domain.CatalogRepository[*Investor]
}
