package expense

import (
	"storeledger/internal/domain"
)

// Repository defines the interface for Expense persistence.
type Repository interface {
	domain.CatalogRepository[*Expense]
}
