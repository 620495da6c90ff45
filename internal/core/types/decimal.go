// Package types provides the fixed-point numeric types used by the ledger.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is a stock quantity in base units (pieces or pieces-equivalent).
type Quantity = decimal.Decimal

// Storage scales, matching the NUMERIC columns in the schema.
const (
	// MoneyScale is used for totals, amounts, debts and sale prices.
	MoneyScale int32 = 2

	// UnitCostScale is used for per-base-unit cost prices, which are
	// derived by division and need more digits than a till amount.
	UnitCostScale int32 = 4

	// QuantityScale is used for every quantity column.
	QuantityScale int32 = 3
)

// RoundMoney rounds to MoneyScale (half away from zero, as NUMERIC does).
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}

// RoundQuantity rounds to QuantityScale.
func RoundQuantity(q Quantity) Quantity {
	return q.Round(QuantityScale)
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values; an empty input sums to zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
