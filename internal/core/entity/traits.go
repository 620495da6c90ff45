package entity

import (
	"context"

	"storeledger/internal/core/apperror"
)

// Currency is a tag on monetary records. Amounts are never converted between currencies.
type Currency string

const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
)

// DefaultCurrency is used when a record does not name one.
const DefaultCurrency = CurrencyUZS

// CurrencyAware is a trait for entities that carry a currency tag.
// Used for composition in Sale and Investor.
type CurrencyAware struct {
	Currency Currency `db:"currency" json:"currency"`
}

// ValidateCurrency defaults an empty currency and rejects unknown ones.
func (c *CurrencyAware) ValidateCurrency(ctx context.Context) error {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	switch c.Currency {
	case CurrencyUZS, CurrencyUSD:
		return nil
	}
	return apperror.NewValidation("unsupported currency").
		WithDetail("field", "currency").
		WithDetail("value", string(c.Currency))
}
