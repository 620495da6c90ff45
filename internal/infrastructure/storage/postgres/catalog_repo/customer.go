package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/infrastructure/storage/postgres"
)

var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo is the PostgreSQL implementation of customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"customers",
		"Customer",
		postgres.ExtractDBColumns[customer.Customer](),
		func() *customer.Customer { return &customer.Customer{} },
	)
	base.preserve("debt", "created_at")
	return &CustomerRepo{BaseCatalogRepo: base}
}

// FindByContact looks a customer up by (branch, name, phone).
func (r *CustomerRepo) FindByContact(ctx context.Context, branchID id.ID, contact customer.Contact) (*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{
			"branch_id":    branchID,
			"name":         contact.Name,
			"phone_number": contact.PhoneNumber,
		}).
		Limit(1)

	return r.FindOne(ctx, q, contact.PhoneNumber)
}

func (r *CustomerRepo) adjustDebtQuery(customerID id.ID, delta decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		Set("debt", squirrel.Expr("debt + ?", delta)).
		Where(squirrel.Eq{"id": customerID})
}

// AdjustDebt applies a relative change to the customer's debt.
func (r *CustomerRepo) AdjustDebt(ctx context.Context, customerID id.ID, delta decimal.Decimal) error {
	return r.execDebt(ctx, customerID, r.adjustDebtQuery(customerID, delta))
}

func (r *CustomerRepo) reduceDebtQuery(customerID id.ID, amount decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		Set("debt", squirrel.Expr("GREATEST(debt - ?, 0)", amount)).
		Where(squirrel.Eq{"id": customerID})
}

// ReduceDebt lowers the debt by amount, never below zero.
func (r *CustomerRepo) ReduceDebt(ctx context.Context, customerID id.ID, amount decimal.Decimal) error {
	return r.execDebt(ctx, customerID, r.reduceDebtQuery(customerID, amount))
}

func (r *CustomerRepo) execDebt(ctx context.Context, customerID id.ID, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build debt update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer debt: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, customerID.String())
	}
	return nil
}
