package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCumulativeBilling_SequentialInvoices(t *testing.T) {
	totalFee := dec(t, "1000000")

	steps := []struct {
		targetPct      string
		wantSubtotal   string
		wantCumulative string
	}{
		{"20", "200000", "200000"},
		{"45", "250000", "450000"},
		{"70", "250000", "700000"},
	}

	billed := decimal.Zero
	for _, step := range steps {
		out, err := ComputeCumulativeBilling(totalFee, dec(t, step.targetPct), billed)
		require.NoError(t, err, "target %s%%", step.targetPct)
		assertDecEqual(t, step.wantSubtotal, out.Subtotal)
		assertDecEqual(t, step.wantCumulative, out.CumulativeFeeAmount)
		billed = billed.Add(out.Subtotal)
	}
}

func TestComputeCumulativeBilling_BelowBilledIsRejected(t *testing.T) {
	// 70% already billed; a 10% target would mean a negative subtotal
	_, err := ComputeCumulativeBilling(dec(t, "1000000"), dec(t, "10"), dec(t, "700000"))
	assert.ErrorIs(t, err, ErrInvalidBillingState)
}

func TestComputeCumulativeBilling_ExceedingTotalFeeIsRejected(t *testing.T) {
	_, err := ComputeCumulativeBilling(dec(t, "1000000"), dec(t, "105"), dec(t, "700000"))
	assert.ErrorIs(t, err, ErrFeeExceeded)
}

func TestComputeCumulativeBilling_TargetEqualToBilledYieldsZeroSubtotal(t *testing.T) {
	out, err := ComputeCumulativeBilling(dec(t, "1000000"), dec(t, "70"), dec(t, "700000"))
	require.NoError(t, err)
	assertDecEqual(t, "0", out.Subtotal)
	assertDecEqual(t, "700000", out.CumulativeFeeAmount)
}

func TestComputeCumulativeBilling_FullFee(t *testing.T) {
	out, err := ComputeCumulativeBilling(dec(t, "1000000"), dec(t, "100"), dec(t, "700000"))
	require.NoError(t, err)
	assertDecEqual(t, "300000", out.Subtotal)
	assertDecEqual(t, "1000000", out.CumulativeFeeAmount)
}
