// Package register_repo provides the PostgreSQL implementation of the
// append-only stock History register.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/registers/history"
	"storeledger/internal/infrastructure/storage/postgres"
)

const historyTable = "history"

var historyColumns = postgres.ExtractDBColumns[history.Entry]()

var _ history.Repository = (*HistoryRepo)(nil)

// HistoryRepo implements history.Repository. It exposes no UPDATE or DELETE.
type HistoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewHistoryRepo creates a new History register repository.
func NewHistoryRepo(txManager *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a new entry. Reusing an ID is reported as ImmutableRecord.
func (r *HistoryRepo) Insert(ctx context.Context, entry *history.Entry) error {
	data := postgres.FilterColumns(postgres.StructToMap(entry), historyColumns)

	sql, args, err := r.builder.Insert(historyTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewImmutableRecord("History", entry.ID.String()).WithCause(err)
		}
		return fmt.Errorf("insert history: %w", postgres.MapWriteError(err, "History"))
	}
	return nil
}

// GetByID retrieves a single entry.
func (r *HistoryRepo) GetByID(ctx context.Context, entryID id.ID) (*history.Entry, error) {
	sql, args, err := r.builder.
		Select(historyColumns...).
		From(historyTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry history.Entry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("History", entryID.String())
		}
		return nil, fmt.Errorf("get history: %w", err)
	}
	return &entry, nil
}

func (r *HistoryRepo) listQuery(filter history.Filter) squirrel.SelectBuilder {
	q := r.builder.
		Select(historyColumns...).
		From(historyTable)

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"changed_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"changed_at": *filter.To})
	}

	q = q.OrderBy("changed_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

// List returns entries newest first.
func (r *HistoryRepo) List(ctx context.Context, filter history.Filter) ([]*history.Entry, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*history.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
