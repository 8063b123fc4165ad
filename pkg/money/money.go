// Package money holds the fixed-point arithmetic used for receipt totals.
//
// Every amount is rounded half-up (away from zero on ties) to two decimal
// places at three points: each line total, the subtotal and the grand total.
package money

import "github.com/shopspring/decimal"

// Scale is the number of decimal places kept for monetary amounts.
const Scale = 2

// Round rounds d half-up to Scale decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// LineTotal returns round(qty × unitPrice).
func LineTotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(qty.Mul(unitPrice))
}

// OrZero returns the rounded amount, or zero when it is absent.
func OrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return Round(decimal.Zero)
	}
	return Round(*d)
}

// Totals is the result of summing a receipt.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute sums already-rounded line totals and applies discount and tax.
// Missing discount or tax count as zero.
func Compute(lineTotals []decimal.Decimal, discount, tax *decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = Round(subtotal)

	d := OrZero(discount)
	t := OrZero(tax)

	return Totals{
		Subtotal:   subtotal,
		Discount:   d,
		Tax:        t,
		GrandTotal: Round(subtotal.Sub(d).Add(t)),
	}
}
