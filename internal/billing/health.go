package billing

import "github.com/shopspring/decimal"

// GroupedRow is one pre-grouped aggregate tuple from the persistence layer.
type GroupedRow struct {
	Key               string
	Count             int64
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	OutstandingAmount decimal.Decimal
}

// HealthMetrics is one rolled-up view of invoiced money.
type HealthMetrics struct {
	Count            int64           `json:"count"`
	TotalInvoiced    decimal.Decimal `json:"totalInvoiced"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	CollectionRate   decimal.Decimal `json:"collectionRate"`
}

// DimensionMetrics is HealthMetrics keyed by a breakdown value
// (an invoice status, a charge type, a project stage).
type DimensionMetrics struct {
	Key string `json:"key"`
	HealthMetrics
}

// HealthInput is the set of pre-grouped rows for one organization.
// ActiveOverall is scoped to invoices of active projects (or none);
// AllInvoices is unscoped. The two are kept separate end to end.
type HealthInput struct {
	ActiveOverall   GroupedRow
	AllInvoices     GroupedRow
	ByInvoiceStatus []GroupedRow
	ByChargeType    []GroupedRow
	ByProjectStage  []GroupedRow
}

type FinancialHealthSnapshot struct {
	ActiveProjects  HealthMetrics      `json:"activeProjects"`
	AllInvoices     HealthMetrics      `json:"allInvoices"`
	ByInvoiceStatus []DimensionMetrics `json:"byInvoiceStatus"`
	ByChargeType    []DimensionMetrics `json:"byChargeType"`
	ByProjectStage  []DimensionMetrics `json:"byProjectStage"`
}

// ComputeFinancialHealth assembles the organization-wide snapshot from
// rows grouped by the persistence layer.
func ComputeFinancialHealth(in HealthInput) FinancialHealthSnapshot {
	return FinancialHealthSnapshot{
		ActiveProjects:  metricsFrom(in.ActiveOverall),
		AllInvoices:     metricsFrom(in.AllInvoices),
		ByInvoiceStatus: dimensionsFrom(in.ByInvoiceStatus),
		ByChargeType:    dimensionsFrom(in.ByChargeType),
		ByProjectStage:  dimensionsFrom(in.ByProjectStage),
	}
}

// collectionRate = paid / invoiced * 100, 0 when nothing is invoiced.
func metricsFrom(row GroupedRow) HealthMetrics {
	return HealthMetrics{
		Count:            row.Count,
		TotalInvoiced:    row.TotalAmount,
		TotalPaid:        row.PaidAmount,
		TotalOutstanding: row.OutstandingAmount,
		CollectionRate:   PercentOf(row.PaidAmount, row.TotalAmount),
	}
}

func dimensionsFrom(rows []GroupedRow) []DimensionMetrics {
	out := make([]DimensionMetrics, 0, len(rows))
	for _, row := range rows {
		out = append(out, DimensionMetrics{Key: row.Key, HealthMetrics: metricsFrom(row)})
	}
	return out
}
