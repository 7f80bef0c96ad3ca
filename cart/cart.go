// Package cart holds the in-memory order being built at one POS terminal.
// A Cart is owned by a single terminal session and is never shared, so it
// carries no locking; every mutation recomputes the derived totals before
// returning.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/cafepos/pos-app/pricing"
)

// Line is one entry in the cart. Quantity is always >= 1; dropping the last
// unit removes the line entirely.
type Line struct {
	ItemID        uint
	Name          string
	UnitPrice     decimal.Decimal
	Quantity      int
	DiscountPct   decimal.Decimal
	Category      string
	CategoryColor string
}

// Totals are derived values, recomputed on every mutation and never set
// directly. Discount is the combined money amount removed by line discounts
// plus the order-level discount. Total = Subtotal - Discount + Tax.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Snapshot is a deep copy of the cart taken at submission time. Later edits
// to the live cart do not affect it.
type Snapshot struct {
	Lines            []Line
	OrderDiscountPct decimal.Decimal
	TaxRate          decimal.Decimal
	Totals           Totals
}

type Cart struct {
	lines         []Line
	orderDiscount decimal.Decimal
	taxRate       decimal.Decimal
	totals        Totals
	onChange      func(Totals)
}

func New() *Cart {
	c := &Cart{taxRate: pricing.DefaultTaxRate}
	c.recompute()
	return c
}

// SetTaxRate replaces the rate used for derived totals, normally after the
// settings fetch. Totals are recomputed immediately.
func (c *Cart) SetTaxRate(rate decimal.Decimal) {
	c.taxRate = rate
	c.recompute()
	c.notify()
}

// OnChange registers a single callback fired after every mutation, for UI
// refresh. Passing nil removes it.
func (c *Cart) OnChange(fn func(Totals)) {
	c.onChange = fn
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// the existing line for the same item. The candidate's Quantity and
// DiscountPct fields are ignored.
func (c *Cart) AddItem(candidate Line) error {
	if candidate.UnitPrice.IsNegative() {
		return &pricing.InvalidInputError{Field: "unit price", Value: candidate.UnitPrice.String()}
	}
	for i := range c.lines {
		if c.lines[i].ItemID == candidate.ItemID {
			c.lines[i].Quantity++
			c.recompute()
			c.notify()
			return nil
		}
	}
	candidate.Quantity = 1
	candidate.DiscountPct = decimal.Zero
	c.lines = append(c.lines, candidate)
	c.recompute()
	c.notify()
	return nil
}

// RemoveItem deletes the matching line regardless of quantity. Removing an
// absent id is a no-op.
func (c *Cart) RemoveItem(itemID uint) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recompute()
			c.notify()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less removes
// the line. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(itemID uint, qty int) {
	if qty <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = qty
			c.recompute()
			c.notify()
			return
		}
	}
}

// UpdateItemDiscount sets the line's discount percentage, clamped to [0,100].
func (c *Cart) UpdateItemDiscount(itemID uint, pct decimal.Decimal) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].DiscountPct = pricing.ClampPercent(pct)
			c.recompute()
			c.notify()
			return
		}
	}
}

// UpdateOrderDiscount sets the order-level discount percentage, clamped to
// [0,100].
func (c *Cart) UpdateOrderDiscount(pct decimal.Decimal) {
	c.orderDiscount = pricing.ClampPercent(pct)
	c.recompute()
	c.notify()
}

// Clear resets the cart to fresh-session state. The tax rate is kept.
func (c *Cart) Clear() {
	c.lines = nil
	c.orderDiscount = decimal.Zero
	c.recompute()
	c.notify()
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in display order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Totals() Totals {
	return c.totals
}

func (c *Cart) OrderDiscount() decimal.Decimal {
	return c.orderDiscount
}

func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Snapshot copies the whole cart state for submission. The copy does not
// observe later mutations of the cart.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Lines:            c.Lines(),
		OrderDiscountPct: c.orderDiscount,
		TaxRate:          c.taxRate,
		Totals:           c.totals,
	}
}

func (c *Cart) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity, DiscountPct: l.DiscountPct}
	}
	return lines
}

// recompute derives totals from the current lines. The cart only ever holds
// validated lines, so the pricing errors cannot fire here.
func (c *Cart) recompute() {
	lines := c.pricingLines()

	subtotal, _ := pricing.OrderSubtotal(lines)
	orderDiscount, _ := pricing.OrderDiscountAmount(lines, c.orderDiscount)

	lineDiscounts := decimal.Zero
	for _, l := range lines {
		amt, _ := pricing.LineDiscountAmount(l)
		lineDiscounts = lineDiscounts.Add(amt)
	}

	taxable := subtotal.Sub(lineDiscounts).Sub(orderDiscount)
	tax := pricing.Tax(taxable, c.taxRate)

	c.totals = Totals{
		Subtotal: subtotal,
		Discount: lineDiscounts.Add(orderDiscount),
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
}

func (c *Cart) notify() {
	if c.onChange != nil {
		c.onChange(c.totals)
	}
}
