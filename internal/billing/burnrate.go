package billing

import "github.com/shopspring/decimal"

type BudgetHealth string

const (
	BudgetHealthy  BudgetHealth = "healthy"
	BudgetWarning  BudgetHealth = "warning"
	BudgetCritical BudgetHealth = "critical"
)

// AssignmentCost is one resource assignment's contribution to burn.
type AssignmentCost struct {
	Hours decimal.Decimal
	Rate  decimal.Decimal // cost per hour
}

// PhaseBurnInput carries one phase's budget and assignments.
type PhaseBurnInput struct {
	PhaseID        uint
	Name           string
	ContractAmount *decimal.Decimal
	Assignments    []AssignmentCost
}

// BurnRateInput is everything the evaluator needs about a project.
type BurnRateInput struct {
	TotalFee           *decimal.Decimal
	TargetProfitMargin decimal.Decimal // 0..1
	Phases             []PhaseBurnInput
}

// PhaseBurn is the per-phase breakdown inside a snapshot. It is built once
// with its parent and never mutated afterwards.
type PhaseBurn struct {
	PhaseID        uint            `json:"phaseId"`
	Name           string          `json:"name"`
	Budget         decimal.Decimal `json:"budget"`
	Burn           decimal.Decimal `json:"burn"`
	BurnPercentage decimal.Decimal `json:"burnPercentage"`
	OverBudget     bool            `json:"overBudget"`
	Status         BudgetHealth    `json:"status"`
}

type BurnRateSnapshot struct {
	TotalFee           decimal.Decimal `json:"totalFee"`
	TargetProfitMargin decimal.Decimal `json:"targetProfitMargin"`
	ProductionBudget   decimal.Decimal `json:"productionBudget"`
	CurrentBurn        decimal.Decimal `json:"currentBurn"`
	BurnPercentage     decimal.Decimal `json:"burnPercentage"`
	OverBudget         bool            `json:"overBudget"`
	Status             BudgetHealth    `json:"status"`
	Phases             []PhaseBurn     `json:"phases"`
}

// ComputeBurnRate evaluates budget health for a project.
//
// productionBudget = totalFee * (1 - targetProfitMargin); a nil total fee
// counts as zero. A non-positive budget is the degenerate case: 0%,
// healthy, not over budget, whatever the burn.
func ComputeBurnRate(in BurnRateInput) BurnRateSnapshot {
	totalFee := decimal.Zero
	if in.TotalFee != nil {
		totalFee = *in.TotalFee
	}
	budget := totalFee.Mul(decimal.NewFromInt(1).Sub(in.TargetProfitMargin))

	burn := decimal.Zero
	phases := make([]PhaseBurn, 0, len(in.Phases))
	for _, ph := range in.Phases {
		phaseBurn := decimal.Zero
		for _, a := range ph.Assignments {
			phaseBurn = phaseBurn.Add(a.Hours.Mul(a.Rate))
		}
		burn = burn.Add(phaseBurn)

		phaseBudget := decimal.Zero
		if ph.ContractAmount != nil {
			phaseBudget = *ph.ContractAmount
		}
		pct := decimal.Zero
		over := false
		if phaseBudget.IsPositive() {
			pct = PercentOf(phaseBurn, phaseBudget)
			over = phaseBurn.GreaterThan(phaseBudget)
		}
		phases = append(phases, PhaseBurn{
			PhaseID:        ph.PhaseID,
			Name:           ph.Name,
			Budget:         phaseBudget,
			Burn:           phaseBurn,
			BurnPercentage: pct,
			OverBudget:     over,
			Status:         healthFor(pct),
		})
	}

	snapshot := BurnRateSnapshot{
		TotalFee:           totalFee,
		TargetProfitMargin: in.TargetProfitMargin,
		ProductionBudget:   budget,
		CurrentBurn:        burn,
		Status:             BudgetHealthy,
		Phases:             phases,
	}
	if budget.IsPositive() {
		snapshot.BurnPercentage = PercentOf(burn, budget)
		snapshot.OverBudget = burn.GreaterThan(budget)
		snapshot.Status = healthFor(snapshot.BurnPercentage)
	}
	return snapshot
}

// Thresholds are strict: exactly 75% is healthy, exactly 100% is warning.
func healthFor(pct decimal.Decimal) BudgetHealth {
	switch {
	case pct.GreaterThan(hundred):
		return BudgetCritical
	case pct.GreaterThan(decimal.NewFromInt(75)):
		return BudgetWarning
	default:
		return BudgetHealthy
	}
}
