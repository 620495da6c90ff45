// Package customer provides the Customer registry and the debt each
// customer carries from sales.
package customer

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/core/phone"
	"storeledger/internal/core/validate"
)

// Customer is a buyer of one branch. A customer is identified within the
// branch by name and phone number.
type Customer struct {
	entity.BaseEntity

	BranchID    id.ID           `db:"branch_id" json:"branchId" validate:"required"`
	Name        string          `db:"name" json:"name" validate:"required,max=100"`
	PhoneNumber string          `db:"phone_number" json:"phoneNumber" validate:"required,max=15"`
	Debt        decimal.Decimal `db:"debt" json:"debt"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// Contact is the natural key of a customer inside a branch.
type Contact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// Normalize trims the name and puts the phone number in E.164 form.
func (c Contact) Normalize() (Contact, error) {
	normalized, err := phone.Normalize(c.PhoneNumber)
	if err != nil {
		return Contact{}, err
	}
	return Contact{Name: strings.TrimSpace(c.Name), PhoneNumber: normalized}, nil
}

// NewCustomer creates a new Customer with zero debt.
func NewCustomer(branchID id.ID, contact Contact) *Customer {
	return &Customer{
		BaseEntity:  entity.NewBaseEntity(),
		BranchID:    branchID,
		Name:        contact.Name,
		PhoneNumber: contact.PhoneNumber,
		Debt:        decimal.Zero,
	}
}

// Contact returns the customer's natural key.
func (c *Customer) Contact() Contact {
	return Contact{Name: c.Name, PhoneNumber: c.PhoneNumber}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	contact, err := c.Contact().Normalize()
	if err != nil {
		return err
	}
	c.Name, c.PhoneNumber = contact.Name, contact.PhoneNumber
	return validate.Struct(c)
}
