// Package pricing computes money amounts for cart lines and whole orders.
// All functions are pure and operate on decimal values; nothing here rounds
// mid-calculation. Round2 exists for display and persistence boundaries.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when settings have not been fetched yet (8.875%).
var DefaultTaxRate = decimal.RequireFromString("0.08875")

var hundred = decimal.NewFromInt(100)

// Line carries the inputs needed to price one cart line.
type Line struct {
	UnitPrice   decimal.Decimal
	Quantity    int
	DiscountPct decimal.Decimal
}

// InvalidInputError reports a negative price or quantity. These are rejected
// locally and never reach the order endpoint.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Value)
}

func validate(l Line) error {
	if l.UnitPrice.IsNegative() {
		return &InvalidInputError{Field: "unit price", Value: l.UnitPrice.String()}
	}
	if l.Quantity < 0 {
		return &InvalidInputError{Field: "quantity", Value: fmt.Sprintf("%d", l.Quantity)}
	}
	return nil
}

// ClampPercent forces a discount percentage into [0,100].
func ClampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// LineSubtotal is price*qty reduced by the line discount percentage.
func LineSubtotal(l Line) (decimal.Decimal, error) {
	if err := validate(l); err != nil {
		return decimal.Zero, err
	}
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	factor := decimal.NewFromInt(1).Sub(ClampPercent(l.DiscountPct).Div(hundred))
	return gross.Mul(factor), nil
}

// LineDiscountAmount is the money removed from one line by its discount.
func LineDiscountAmount(l Line) (decimal.Decimal, error) {
	if err := validate(l); err != nil {
		return decimal.Zero, err
	}
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return gross.Mul(ClampPercent(l.DiscountPct).Div(hundred)), nil
}

// OrderSubtotal sums raw price*qty across all lines, before any discount.
func OrderSubtotal(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range lines {
		if err := validate(l); err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum, nil
}

// OrderDiscountAmount applies the order-level percentage to the sum of
// post-line-discount subtotals.
func OrderDiscountAmount(lines []Line, orderPct decimal.Decimal) (decimal.Decimal, error) {
	discounted := decimal.Zero
	for _, l := range lines {
		sub, err := LineSubtotal(l)
		if err != nil {
			return decimal.Zero, err
		}
		discounted = discounted.Add(sub)
	}
	return discounted.Mul(ClampPercent(orderPct).Div(hundred)), nil
}

// Tax is amount*rate. The rate comes from settings, or DefaultTaxRate.
func Tax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// OrderTotal is the sum of line subtotals minus the order discount, plus tax
// computed on the discounted subtotal.
func OrderTotal(lines []Line, orderPct, rate decimal.Decimal) (decimal.Decimal, error) {
	discounted := decimal.Zero
	for _, l := range lines {
		sub, err := LineSubtotal(l)
		if err != nil {
			return decimal.Zero, err
		}
		discounted = discounted.Add(sub)
	}
	orderDiscount := discounted.Mul(ClampPercent(orderPct).Div(hundred))
	taxable := discounted.Sub(orderDiscount)
	return taxable.Add(Tax(taxable, rate)), nil
}

// Round2 rounds to two decimal places. Only call at display or persistence
// boundaries.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
