package entity

import (
	"context"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
)

// Document is the base type for business transactions recorded at a branch
// by a worker: purchase batches and sales.
type Document struct {
	BaseEntity

	// BranchID scopes the document (and everything it causes) to one branch
	BranchID id.ID `db:"branch_id" json:"branchId"`

	// WorkerID is the worker who recorded the document
	WorkerID id.ID `db:"worker_id" json:"workerId"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(branchID, workerID id.ID) Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		BranchID:   branchID,
		WorkerID:   workerID,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}

	if id.IsNil(d.WorkerID) {
		return apperror.NewValidation("worker is required").
			WithDetail("field", "workerId")
	}

	return nil
}
