// Package billing is the financial-computation engine: tax splits,
// progress billing, invoice numbering, burn rate and dashboard rollups.
// Everything here is a pure function over already-fetched data; the one
// stateful operation (sequence reservation) is behind the Allocator
// interface and implemented by the database layer.
package billing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// PercentOf returns round(num/den, 4 digits, half-up) * 100.
// A zero denominator yields 0, never a fault: dashboards must always render.
func PercentOf(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 4).Mul(hundred)
}
