package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round rounds half-up to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rules are the storefront-wide knobs for shipping, tax and cart limits.
type Rules struct {
	FreeShippingAbove decimal.Decimal
	ShippingCharge    decimal.Decimal
	TaxRate           decimal.Decimal // percent
	MaxQtyPerVariant  int
}

// DefaultRules: free shipping above 500, otherwise 50; no tax; five of a variant per cart.
func DefaultRules() Rules {
	return Rules{
		FreeShippingAbove: decimal.NewFromInt(500),
		ShippingCharge:    decimal.NewFromInt(50),
		TaxRate:           decimal.Zero,
		MaxQtyPerVariant:  5,
	}
}

// Shipping is free for an empty cart or a subtotal strictly above the threshold.
func (r Rules) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThan(r.FreeShippingAbove) {
		return decimal.Zero
	}
	return r.ShippingCharge
}

// Tax is charged on the discounted subtotal.
func (r Rules) Tax(subtotal, discount decimal.Decimal) decimal.Decimal {
	base := subtotal.Sub(discount)
	if !base.IsPositive() || r.TaxRate.IsZero() {
		return decimal.Zero
	}
	return Round(base.Mul(r.TaxRate).Div(hundred))
}

// FinalAmount = subtotal + shipping + tax - discount, never below zero.
func FinalAmount(subtotal, shipping, tax, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return Round(total)
}

// CouponTerms is the arithmetic view of a coupon.
type CouponTerms struct {
	Percentage    decimal.Decimal
	MaxDiscount   decimal.NullDecimal
	MinOrderValue decimal.Decimal
	Active        bool
	ValidFrom     time.Time
	ValidTo       time.Time
}

// LiveAt reports whether the coupon can be redeemed at now.
func (c CouponTerms) LiveAt(now time.Time) bool {
	return c.Active && !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// Discount returns zero below the minimum order value, otherwise the
// percentage of subtotal capped at MaxDiscount and at the subtotal itself.
func (c CouponTerms) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.LessThan(c.MinOrderValue) {
		return decimal.Zero
	}
	d := subtotal.Mul(c.Percentage).Div(hundred)
	if c.MaxDiscount.Valid && d.GreaterThan(c.MaxDiscount.Decimal) {
		d = c.MaxDiscount.Decimal
	}
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	return Round(d)
}

// RefundShare is the item total less its proportional slice of the order discount.
func RefundShare(itemTotal, orderSubtotal, orderDiscount decimal.Decimal) decimal.Decimal {
	if !orderSubtotal.IsPositive() || !orderDiscount.IsPositive() {
		return Round(itemTotal)
	}
	share := itemTotal.Mul(orderDiscount).Div(orderSubtotal)
	refund := itemTotal.Sub(share)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return Round(refund)
}

// ToPaise converts rupees to the integer minor unit payment gateways expect.
func ToPaise(amount decimal.Decimal) int64 {
	return Round(amount).Shift(2).IntPart()
}
