package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func burnInput(t *testing.T, totalFee, margin string, assignments ...[2]string) BurnRateInput {
	t.Helper()
	costs := make([]AssignmentCost, 0, len(assignments))
	for _, a := range assignments {
		costs = append(costs, AssignmentCost{Hours: dec(t, a[0]), Rate: dec(t, a[1])})
	}
	return BurnRateInput{
		TotalFee:           decPtr(t, totalFee),
		TargetProfitMargin: dec(t, margin),
		Phases:             []PhaseBurnInput{{PhaseID: 1, Name: "Schematic", Assignments: costs}},
	}
}

func TestComputeBurnRate_WarningScenario(t *testing.T) {
	// 500k fee at 20% margin -> 400k production budget; 350k burn -> 87.5%
	snap := ComputeBurnRate(burnInput(t, "500000", "0.2", [2]string{"1000", "350"}))

	assertDecEqual(t, "400000", snap.ProductionBudget)
	assertDecEqual(t, "350000", snap.CurrentBurn)
	assertDecEqual(t, "87.5", snap.BurnPercentage)
	assert.Equal(t, BudgetWarning, snap.Status)
	assert.False(t, snap.OverBudget)
}

func TestComputeBurnRate_ThresholdsAreStrict(t *testing.T) {
	// budget is 100000 in each case
	cases := []struct {
		burnHours string
		wantPct   string
		want      BudgetHealth
		wantOver  bool
	}{
		{"750", "75", BudgetHealthy, false},   // exactly 75% stays healthy
		{"751", "75.1", BudgetWarning, false},
		{"1000", "100", BudgetWarning, false}, // exactly 100% is warning, not critical
		{"1001", "100.1", BudgetCritical, true},
	}

	for _, tc := range cases {
		snap := ComputeBurnRate(burnInput(t, "100000", "0", [2]string{tc.burnHours, "100"}))
		assertDecEqual(t, tc.wantPct, snap.BurnPercentage)
		assert.Equal(t, tc.want, snap.Status, "burn hours %s", tc.burnHours)
		assert.Equal(t, tc.wantOver, snap.OverBudget, "burn hours %s", tc.burnHours)
	}
}

func TestComputeBurnRate_ZeroBudgetIsDegenerateNotError(t *testing.T) {
	for _, in := range []BurnRateInput{
		// nil total fee
		{Phases: []PhaseBurnInput{{PhaseID: 1, Assignments: []AssignmentCost{{Hours: dec(t, "100"), Rate: dec(t, "500")}}}}},
		// margin eats the whole fee
		burnInput(t, "100000", "1", [2]string{"100", "500"}),
	} {
		snap := ComputeBurnRate(in)
		assertDecEqual(t, "0", snap.BurnPercentage)
		assert.Equal(t, BudgetHealthy, snap.Status)
		assert.False(t, snap.OverBudget)
		assertDecEqual(t, "50000", snap.CurrentBurn)
	}
}

func TestComputeBurnRate_EmptyAssignments(t *testing.T) {
	snap := ComputeBurnRate(BurnRateInput{
		TotalFee:           decPtr(t, "200000"),
		TargetProfitMargin: dec(t, "0.3"),
	})
	assertDecEqual(t, "140000", snap.ProductionBudget)
	assertDecEqual(t, "0", snap.CurrentBurn)
	assert.Equal(t, BudgetHealthy, snap.Status)
	assert.Empty(t, snap.Phases)
}

func TestComputeBurnRate_PhaseBreakdown(t *testing.T) {
	in := BurnRateInput{
		TotalFee:           decPtr(t, "1000000"),
		TargetProfitMargin: dec(t, "0.2"),
		Phases: []PhaseBurnInput{
			{
				PhaseID:        1,
				Name:           "Concept",
				ContractAmount: decPtr(t, "100000"),
				Assignments:    []AssignmentCost{{Hours: dec(t, "400"), Rate: dec(t, "300")}},
			},
			{
				PhaseID:     2,
				Name:        "Schematic",
				Assignments: []AssignmentCost{{Hours: dec(t, "100"), Rate: dec(t, "200")}},
			},
		},
	}

	snap := ComputeBurnRate(in)
	assertDecEqual(t, "140000", snap.CurrentBurn)

	assert.Len(t, snap.Phases, 2)

	concept := snap.Phases[0]
	assertDecEqual(t, "120000", concept.Burn)
	assertDecEqual(t, "120", concept.BurnPercentage)
	assert.Equal(t, BudgetCritical, concept.Status)
	assert.True(t, concept.OverBudget)

	// no contract amount: 0%, healthy, never a division fault
	schematic := snap.Phases[1]
	assertDecEqual(t, "20000", schematic.Burn)
	assertDecEqual(t, "0", schematic.BurnPercentage)
	assert.Equal(t, BudgetHealthy, schematic.Status)
	assert.False(t, schematic.OverBudget)
}

func TestPercentOf_RoundsHalfUpAtFourDigits(t *testing.T) {
	// 1/3 = 0.3333 -> 33.33%
	assertDecEqual(t, "33.33", PercentOf(dec(t, "1"), dec(t, "3")))
	// 0.00005 rounds up at the 4th digit
	assertDecEqual(t, "0.01", PercentOf(dec(t, "5"), dec(t, "100000")))
	assertDecEqual(t, "0", PercentOf(dec(t, "123"), decimal.Zero))
}
