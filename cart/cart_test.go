package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cafepos/pos-app/cart"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func coffee() cart.Line {
	return cart.Line{ItemID: 1, Name: "Coffee", UnitPrice: d("10.00"), Category: "Drinks"}
}

func bagel() cart.Line {
	return cart.Line{ItemID: 2, Name: "Bagel", UnitPrice: d("3.50"), Category: "Food"}
}

// total == subtotal - discount + tax must hold after every mutation.
func assertReconciled(t *testing.T, c *cart.Cart) {
	t.Helper()
	tot := c.Totals()
	expected := tot.Subtotal.Sub(tot.Discount).Add(tot.Tax)
	assert.True(t, tot.Total.Equal(expected),
		"totals out of sync: total=%s subtotal=%s discount=%s tax=%s", tot.Total, tot.Subtotal, tot.Discount, tot.Tax)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	c := cart.New()
	assert.NoError(t, c.AddItem(coffee()))
	assert.NoError(t, c.AddItem(coffee()))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, c.Totals().Subtotal.Equal(d("20")), "got %s", c.Totals().Subtotal)
	assertReconciled(t, c)
}

func TestAddItemRejectsNegativePrice(t *testing.T) {
	c := cart.New()
	err := c.AddItem(cart.Line{ItemID: 9, Name: "Broken", UnitPrice: d("-1")})
	assert.Error(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())
	c.AddItem(coffee())
	c.AddItem(bagel())

	c.RemoveItem(1)
	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].ItemID)
	assertReconciled(t, c)

	// removing an absent id is a no-op
	c.RemoveItem(99)
	assert.Len(t, c.Lines(), 1)
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())

	c.UpdateQuantity(1, 0)
	assert.True(t, c.IsEmpty())
	assertReconciled(t, c)

	// both are no-ops on absent ids
	c.UpdateQuantity(42, 0)
	c.RemoveItem(42)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())
	c.UpdateQuantity(1, 5)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
	assertReconciled(t, c)

	// unknown id is a no-op
	c.UpdateQuantity(7, 3)
	assert.Len(t, c.Lines(), 1)
}

func TestDiscountClamping(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())

	c.UpdateItemDiscount(1, d("150"))
	assert.True(t, c.Lines()[0].DiscountPct.Equal(d("100")))

	c.UpdateOrderDiscount(d("-10"))
	assert.True(t, c.OrderDiscount().Equal(decimal.Zero))
	assertReconciled(t, c)
}

func TestClearIsIdempotent(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())
	c.UpdateOrderDiscount(d("5"))

	c.Clear()
	first := c.Totals()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.OrderDiscount().IsZero())

	c.Clear()
	assert.Equal(t, first, c.Totals())
	assert.True(t, c.IsEmpty())
}

// One line 10.00 x2 with 10% line discount at the default 8.875% rate.
func TestDerivedTotals(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())
	c.AddItem(coffee())
	c.UpdateItemDiscount(1, d("10"))

	tot := c.Totals()
	assert.True(t, tot.Subtotal.Equal(d("20")), "subtotal %s", tot.Subtotal)
	assert.True(t, tot.Discount.Equal(d("2")), "discount %s", tot.Discount)
	assert.True(t, tot.Tax.Equal(d("1.5975")), "tax %s", tot.Tax)
	assert.True(t, tot.Total.Equal(d("19.5975")), "total %s", tot.Total)
	assertReconciled(t, c)
}

func TestReconciliationAcrossMutationSequence(t *testing.T) {
	c := cart.New()

	steps := []func(){
		func() { c.AddItem(coffee()) },
		func() { c.AddItem(bagel()) },
		func() { c.AddItem(coffee()) },
		func() { c.UpdateQuantity(2, 4) },
		func() { c.UpdateItemDiscount(1, d("25")) },
		func() { c.UpdateOrderDiscount(d("10")) },
		func() { c.UpdateQuantity(1, 0) },
		func() { c.RemoveItem(2) },
	}
	for _, step := range steps {
		step()
		assertReconciled(t, c)
	}
	assert.True(t, c.IsEmpty())
}

func TestOnChangeFiresAfterEveryMutation(t *testing.T) {
	c := cart.New()
	var calls int
	c.OnChange(func(cart.Totals) { calls++ })

	c.AddItem(coffee())
	c.UpdateQuantity(1, 3)
	c.UpdateOrderDiscount(d("5"))
	c.Clear()

	assert.Equal(t, 4, calls)
}

func TestSnapshotDoesNotObserveLaterEdits(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())

	snap := c.Snapshot()
	c.AddItem(bagel())
	c.UpdateQuantity(1, 9)

	assert.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assert.True(t, snap.Totals.Subtotal.Equal(d("10")))
}

func TestSetTaxRateRecomputes(t *testing.T) {
	c := cart.New()
	c.AddItem(coffee())

	c.SetTaxRate(d("0.10"))
	assert.True(t, c.Totals().Tax.Equal(d("1")), "tax %s", c.Totals().Tax)
	assertReconciled(t, c)
}

// Two terminals own independent carts; neither sees the other's mutations.
func TestCartsAreIndependent(t *testing.T) {
	terminalA := cart.New()
	terminalB := cart.New()

	terminalA.AddItem(coffee())
	terminalB.AddItem(coffee())
	terminalA.AddItem(coffee())

	assert.Equal(t, 2, terminalA.Lines()[0].Quantity)
	assert.Equal(t, 1, terminalB.Lines()[0].Quantity)
}
