package database

import (
	"archdesk/internal/billing"
	"archdesk/internal/models"

	"github.com/shopspring/decimal"
)

const groupedColumns = "COUNT(*) AS count, " +
	"COALESCE(SUM(invoices.total_amount), 0) AS total_amount, " +
	"COALESCE(SUM(invoices.paid_amount), 0) AS paid_amount, " +
	"COALESCE(SUM(invoices.balance_amount), 0) AS outstanding_amount"

type groupedScan struct {
	Key               string
	Count             int64
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	OutstandingAmount decimal.Decimal
}

// FinancialHealthRows collects the pre-grouped aggregate rows the
// financial health engine consumes: one overall row scoped to invoices of
// active projects (or none), one unscoped overall row, and breakdowns by
// invoice status, project charge type and project stage. Cancelled
// invoices are excluded from the two overall views; the status breakdown
// keeps them as their own bucket.
func FinancialHealthRows(orgID uint) (billing.HealthInput, error) {
	var in billing.HealthInput

	activeStatuses := models.ActiveProjectStatuses()

	activeOverall, err := overallRow(orgID, true, activeStatuses)
	if err != nil {
		return in, err
	}
	allInvoices, err := overallRow(orgID, false, nil)
	if err != nil {
		return in, err
	}

	byStatus, err := groupedRows(orgID, "invoices.status", "")
	if err != nil {
		return in, err
	}
	byChargeType, err := groupedRows(orgID, "projects.charge_type",
		"JOIN projects ON projects.id = invoices.project_id")
	if err != nil {
		return in, err
	}
	byStage, err := groupedRows(orgID, "projects.stage",
		"JOIN projects ON projects.id = invoices.project_id")
	if err != nil {
		return in, err
	}

	in.ActiveOverall = activeOverall
	in.AllInvoices = allInvoices
	in.ByInvoiceStatus = byStatus
	in.ByChargeType = byChargeType
	in.ByProjectStage = byStage
	return in, nil
}

func overallRow(orgID uint, activeOnly bool, statuses []models.ProjectStatus) (billing.GroupedRow, error) {
	q := DB.Model(&models.Invoice{}).
		Select(groupedColumns).
		Where("invoices.organization_id = ? AND invoices.status <> ?", orgID, models.InvoiceCancelled)

	if activeOnly {
		q = q.Joins("LEFT JOIN projects ON projects.id = invoices.project_id").
			Where("invoices.project_id IS NULL OR projects.status IN ?", statuses)
	}

	var row groupedScan
	if err := q.Scan(&row).Error; err != nil {
		return billing.GroupedRow{}, err
	}
	return toGroupedRow(row), nil
}

func groupedRows(orgID uint, dimension, join string) ([]billing.GroupedRow, error) {
	q := DB.Model(&models.Invoice{}).
		Select(dimension + " AS key, " + groupedColumns).
		Where("invoices.organization_id = ?", orgID)

	if join != "" {
		q = q.Joins(join)
	}

	var scans []groupedScan
	if err := q.Group(dimension).Order(dimension).Scan(&scans).Error; err != nil {
		return nil, err
	}

	rows := make([]billing.GroupedRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, toGroupedRow(s))
	}
	return rows, nil
}

func toGroupedRow(s groupedScan) billing.GroupedRow {
	return billing.GroupedRow{
		Key:               s.Key,
		Count:             s.Count,
		TotalAmount:       s.TotalAmount,
		PaidAmount:        s.PaidAmount,
		OutstandingAmount: s.OutstandingAmount,
	}
}

// PreviouslyBilledAmount sums the subtotals of all non-cancelled invoices
// already issued on a project.
func PreviouslyBilledAmount(projectID uint) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := DB.Model(&models.Invoice{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("project_id = ? AND status <> ?", projectID, models.InvoiceCancelled).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}
