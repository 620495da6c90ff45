package history

import (
	"context"
	"time"

	"storeledger/internal/core/id"
)

// Repository persists History entries. There is deliberately no update or
// delete; rows only disappear through the branch/product foreign-key cascade.
type Repository interface {
	// Insert stores a new row. A second insert of the same ID must fail.
	Insert(ctx context.Context, entry *Entry) error

	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)

	List(ctx context.Context, filter Filter) ([]*Entry, error)
}

// Filter selects History rows for the audit view.
type Filter struct {
	BranchID  *id.ID
	ProductID *id.ID
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
