package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxSplit is a subtotal broken into GST components. Exactly one of
// CGST+SGST or IGST is non-zero.
type TaxSplit struct {
	Subtotal decimal.Decimal

	CGSTRate   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTRate   decimal.Decimal
	SGSTAmount decimal.Decimal
	IGSTRate   decimal.Decimal
	IGSTAmount decimal.Decimal

	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal

	InterState bool
}

// ComputeTaxSplit applies the statutory rate (a percentage, e.g. 18) to a
// subtotal. Same org and client state means an intra-state CGST+SGST split
// at rate/2 each; different states mean IGST at the full rate. A blank
// state on either side falls back to IGST so the invoice stays issuable.
func ComputeTaxSplit(subtotal decimal.Decimal, orgState, clientState string, rate decimal.Decimal) TaxSplit {
	split := TaxSplit{Subtotal: subtotal}

	org := strings.ToLower(strings.TrimSpace(orgState))
	client := strings.ToLower(strings.TrimSpace(clientState))

	if org != "" && org == client {
		half := rate.Div(two)
		amount := subtotal.Mul(half).Div(hundred).Round(2)
		split.CGSTRate = half
		split.CGSTAmount = amount
		split.SGSTRate = half
		split.SGSTAmount = amount
	} else {
		split.InterState = true
		split.IGSTRate = rate
		split.IGSTAmount = subtotal.Mul(rate).Div(hundred).Round(2)
	}

	split.TaxAmount = split.CGSTAmount.Add(split.SGSTAmount).Add(split.IGSTAmount)
	split.TotalAmount = subtotal.Add(split.TaxAmount)
	return split
}
