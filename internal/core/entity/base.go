// Package entity provides the building blocks shared by ledger entities.
package entity

import (
	"context"

	"storeledger/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable is implemented by every persisted entity.
type Identifiable interface {
	GetID() id.ID
}

// BaseEntity contains the primary key shared by all entities.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: id.New()}
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// IsNew reports whether the entity has not been assigned an identity yet.
func (b *BaseEntity) IsNew() bool {
	return id.IsNil(b.ID)
}

// EnsureID assigns a new identity when none is set.
func (b *BaseEntity) EnsureID() {
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
}
