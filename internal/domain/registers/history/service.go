package history

import (
	"context"
	"fmt"
	"time"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
)

const defaultListLimit = 100

// Service appends and reads History entries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new History service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Append stores a new entry and assigns its identity and timestamp.
// An entry that already has an identity fails with ImmutableRecord.
func (s *Service) Append(ctx context.Context, entry *Entry) error {
	if entry.IsStored() {
		return apperror.NewImmutableRecord("history", entry.ID.String())
	}
	if !entry.ChangeType.IsValid() {
		return apperror.NewValidation("unknown history change type").
			WithDetail("field", "changeType").
			WithDetail("value", string(entry.ChangeType))
	}
	if entry.QuantityChanged.IsNegative() {
		return apperror.NewValidation("history quantity must not be negative").
			WithDetail("field", "quantityChanged").
			WithDetail("value", entry.QuantityChanged.String())
	}
	if id.IsNil(entry.BranchID) || id.IsNil(entry.ProductID) {
		return apperror.NewValidation("history entry needs a branch and a product")
	}

	entry.ID = id.New()
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = s.now()
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		entry.ID = id.Nil()
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	return s.repo.GetByID(ctx, entryID)
}

// ListByProduct returns the entries of one product, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID, from, to *time.Time) ([]*Entry, error) {
	return s.list(ctx, Filter{ProductID: &productID, From: from, To: to})
}

// ListByBranch returns the entries of one branch, newest first.
func (s *Service) ListByBranch(ctx context.Context, branchID id.ID, from, to *time.Time) ([]*Entry, error) {
	return s.list(ctx, Filter{BranchID: &branchID, From: from, To: to})
}

func (s *Service) list(ctx context.Context, f Filter) ([]*Entry, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, apperror.NewValidation("window start is after its end")
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	return s.repo.List(ctx, f)
}
