// Package pricing derives document amounts from line items.
//
// All currency values are integer units. The tax rate is a decimal so that rates such as
// 0.08 or 0.1 are represented exactly; tax is truncated toward zero, never rounded.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
	ErrInvalidTaxRate   = errors.New("tax rate must be between 0 and 1")
	ErrAmountOverflow   = errors.New("amount exceeds supported range")
)

// DefaultTaxRate is applied when configuration does not override it.
var DefaultTaxRate = decimal.RequireFromString("0.10")

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Line is the priced part of a line item.
type Line struct {
	Quantity  int64
	UnitPrice int64
}

// Totals is the derived amount triple of a document.
type Totals struct {
	Subtotal int64
	Tax      int64
	Total    int64
}

// LineError reports which line failed validation.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Calculator computes totals under a fixed tax rate.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator validates rate and returns a calculator bound to it.
func NewCalculator(rate decimal.Decimal) (*Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidTaxRate
	}
	return &Calculator{rate: rate}, nil
}

// ParseRate parses a configured rate such as "0.1" or "10%".
func ParseRate(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTaxRate, nil
	}
	percent := strings.HasSuffix(raw, "%")
	rate, err := decimal.NewFromString(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse tax rate %q: %w", raw, err)
	}
	if percent {
		rate = rate.Div(decimal.NewFromInt(100))
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, ErrInvalidTaxRate
	}
	return rate, nil
}

// Rate returns the bound tax rate.
func (c *Calculator) Rate() decimal.Decimal {
	return c.rate
}

// LineAmount returns quantity * unitPrice after validating both.
func LineAmount(l Line) (int64, error) {
	if l.Quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if l.UnitPrice < 0 {
		return 0, ErrInvalidUnitPrice
	}
	amount := decimal.NewFromInt(l.Quantity).Mul(decimal.NewFromInt(l.UnitPrice))
	if amount.GreaterThan(maxAmount) {
		return 0, ErrAmountOverflow
	}
	return amount.IntPart(), nil
}

// Compute returns subtotal, tax and total for lines.
//
//	subtotal = Σ quantity × unitPrice
//	tax      = floor(subtotal × rate)
//	total    = subtotal + tax
func (c *Calculator) Compute(lines []Line) (Totals, error) {
	subtotal := decimal.Zero
	for i, l := range lines {
		amount, err := LineAmount(l)
		if err != nil {
			return Totals{}, &LineError{Index: i, Err: err}
		}
		subtotal = subtotal.Add(decimal.NewFromInt(amount))
	}
	tax := subtotal.Mul(c.rate).Floor()
	total := subtotal.Add(tax)
	if total.GreaterThan(maxAmount) {
		return Totals{}, ErrAmountOverflow
	}
	return Totals{
		Subtotal: subtotal.IntPart(),
		Tax:      tax.IntPart(),
		Total:    total.IntPart(),
	}, nil
}
