// Package document_repo provides PostgreSQL implementations for purchase
// batches and sales together with their item rows.
package document_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/infrastructure/storage/postgres"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// BaseDocumentRepo provides header-level operations for document tables.
type BaseDocumentRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	dateCol    string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	entityName string,
	dateCol string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		entityName: entityName,
		dateCol:    dateCol,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new document header.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.FilterColumns(postgres.StructToMap(entity), r.selectCols)

	sql, args, err := builder().Insert(r.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, postgres.MapWriteError(err, r.entityName))
	}
	return nil
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, docID id.ID) (T, error) {
	entity := r.newFn()

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": docID}).ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, docID.String())
		}
		return entity, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return entity, nil
}

// Delete removes the document header.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, docID id.ID) error {
	sql, args, err := builder().Delete(r.tableName).Where(squirrel.Eq{"id": docID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, postgres.MapWriteError(err, r.entityName))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, docID.String())
	}
	return nil
}

// listQuery applies the filters every document list shares.
func (r *BaseDocumentRepo[T]) listQuery(filter domain.ListFilter, from, to *time.Time) squirrel.SelectBuilder {
	q := r.baseSelect()

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if from != nil {
		q = q.Where(squirrel.GtOrEq{r.dateCol: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{r.dateCol: *to})
	}
	return q
}

// list counts, orders and pages q.
func (r *BaseDocumentRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}

	order, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(order)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}

func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" || orderBy == "name" {
		return r.dateCol + " DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	for _, col := range r.selectCols {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}

// itemStore handles the item rows that belong to one document header.
type itemStore[I any] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	parentCol  string
	dateCol    string
	selectCols []string
	newFn      func() I
}

func (s *itemStore[I]) querier(ctx context.Context) postgres.Querier {
	return s.txManager.GetQuerier(ctx)
}

func (s *itemStore[I]) get(ctx context.Context, itemID id.ID) (I, error) {
	item := s.newFn()

	sql, args, err := builder().
		Select(s.selectCols...).
		From(s.tableName).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return item, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, s.querier(ctx), item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return item, apperror.NewNotFound(s.entityName, itemID.String())
		}
		return item, fmt.Errorf("get %s: %w", s.tableName, err)
	}
	return item, nil
}

func (s *itemStore[I]) listFor(ctx context.Context, parentID id.ID) ([]I, error) {
	sql, args, err := builder().
		Select(s.selectCols...).
		From(s.tableName).
		Where(squirrel.Eq{s.parentCol: parentID}).
		OrderBy(s.dateCol, "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []I
	if err := pgxscan.Select(ctx, s.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.tableName, err)
	}
	return items, nil
}

func (s *itemStore[I]) create(ctx context.Context, item I) error {
	data := postgres.FilterColumns(postgres.StructToMap(item), s.selectCols)

	sql, args, err := builder().Insert(s.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", s.tableName, postgres.MapWriteError(err, s.entityName))
	}
	return nil
}

// updateQuery writes every column except the identity, the parent link,
// the product and the creation time.
func (s *itemStore[I]) updateQuery(item I) squirrel.UpdateBuilder {
	data := postgres.StructToMap(item)
	set := postgres.FilterColumns(data, s.selectCols, "id", s.parentCol, "product_id", s.dateCol)

	return builder().
		Update(s.tableName).
		SetMap(set).
		Where(squirrel.Eq{"id": data["id"]})
}

func (s *itemStore[I]) update(ctx context.Context, item I) error {
	sql, args, err := s.updateQuery(item).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := s.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(s.entityName, postgres.StructToMap(item)["id"])
	}
	return nil
}

func (s *itemStore[I]) delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := builder().Delete(s.tableName).Where(squirrel.Eq{"id": itemID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := s.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(s.entityName, itemID.String())
	}
	return nil
}
