// Package branch provides the Branch registry. A branch is the root of every
// other record: products, documents and people all belong to one.
package branch

import (
	"context"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/validate"
)

// Branch is a shop location.
type Branch struct {
	entity.BaseEntity

	Name     string `db:"name" json:"name" validate:"required,max=100"`
	Location string `db:"location" json:"location" validate:"required,max=255"`
}

// NewBranch creates a new Branch with required fields.
func NewBranch(name, location string) *Branch {
	return &Branch{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Location:   location,
	}
}

// Validate implements entity.Validatable interface.
func (b *Branch) Validate(ctx context.Context) error {
	return validate.Struct(b)
}
