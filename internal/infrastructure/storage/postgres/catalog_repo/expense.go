package catalog_repo

import (
	"storeledger/internal/domain/catalogs/expense"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ expense.Repository = (*ExpenseRepo)(nil)

// ExpenseRepo is the PostgreSQL implementation of expense.Repository.
type ExpenseRepo struct {
	*BaseCatalogRepo[*expense.Expense]
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"expenses",
		"Expense",
		postgres.ExtractDBColumns[expense.Expense](),
		func() *expense.Expense { return &expense.Expense{} },
	)
	base.searchBy("description").orderBy("incurred_at DESC")
	return &ExpenseRepo{BaseCatalogRepo: base}
}
