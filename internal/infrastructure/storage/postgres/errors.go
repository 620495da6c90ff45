package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"storeledger/internal/core/apperror"
)

// PostgreSQL error codes the ledger reacts to.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// uniqueConstraints maps unique constraints to the field they protect.
var uniqueConstraints = map[string]string{
	"products_barcode_key":         "barcode",
	"customers_branch_contact_key": "phoneNumber",
	"history_pkey":                 "id",
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// MapWriteError turns constraint violations into AppErrors and returns
// every other error unchanged.
func MapWriteError(err error, entityName string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		field, ok := uniqueConstraints[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return apperror.NewDuplicate(entityName, field, pgErr.Detail).WithCause(err)
	case foreignKeyViolation:
		return apperror.NewConflict("referenced record does not exist or is still in use").
			WithDetail("entity", entityName).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return err
}
