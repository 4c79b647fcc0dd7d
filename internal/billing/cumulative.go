package billing

import "github.com/shopspring/decimal"

// CumulativeBilling is the outcome of one progress-billing step.
type CumulativeBilling struct {
	// Subtotal is the incremental amount due on this invoice.
	Subtotal decimal.Decimal
	// CumulativeFeeAmount is the total that should have been billed
	// once this invoice is issued.
	CumulativeFeeAmount decimal.Decimal
}

// ComputeCumulativeBilling computes the incremental subtotal for billing a
// project up to targetPct (a percentage, e.g. 40) of its total fee, given
// the sum already billed on prior non-cancelled invoices.
//
// Billing below the already-billed cumulative amount is rejected with
// ErrInvalidBillingState, and billing past the total fee with
// ErrFeeExceeded. Neither case is ever clamped.
func ComputeCumulativeBilling(totalFee, targetPct, previouslyBilled decimal.Decimal) (CumulativeBilling, error) {
	cumulative := totalFee.Mul(targetPct).Div(hundred).Round(2)

	if cumulative.GreaterThan(totalFee) {
		return CumulativeBilling{}, ErrFeeExceeded
	}

	subtotal := cumulative.Sub(previouslyBilled)
	if subtotal.IsNegative() {
		return CumulativeBilling{}, ErrInvalidBillingState
	}

	return CumulativeBilling{
		Subtotal:            subtotal,
		CumulativeFeeAmount: cumulative,
	}, nil
}
