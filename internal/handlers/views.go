package handlers

import (
	"time"

	"archdesk/internal/models"

	"github.com/shopspring/decimal"
)

// Projections select which fields a caller may see. Financial fields are
// included only when the caller's role carries the viewFinancials
// capability; the selection is an explicit flag, never reflection.

type ProjectView struct {
	ID          uint                 `json:"id"`
	ClientID    uint                 `json:"clientId"`
	Name        string               `json:"name"`
	ChargeType  models.ChargeType    `json:"chargeType"`
	Stage       models.ProjectStage  `json:"stage"`
	Status      models.ProjectStatus `json:"status"`
	Description string               `json:"description,omitempty"`

	PlannedStart *time.Time `json:"plannedStart,omitempty"`
	PlannedEnd   *time.Time `json:"plannedEnd,omitempty"`
	ActualEnd    *time.Time `json:"actualEnd,omitempty"`

	TotalFee           *decimal.Decimal `json:"totalFee,omitempty"`
	TargetProfitMargin *decimal.Decimal `json:"targetProfitMargin,omitempty"`
	Budget             *decimal.Decimal `json:"budget,omitempty"`
	ActualCost         *decimal.Decimal `json:"actualCost,omitempty"`

	Phases []PhaseView `json:"phases,omitempty"`
}

func NewProjectView(p models.Project, withFinancials bool) ProjectView {
	view := ProjectView{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Name:         p.Name,
		ChargeType:   p.ChargeType,
		Stage:        p.Stage,
		Status:       p.Status,
		Description:  p.Description,
		PlannedStart: p.PlannedStart,
		PlannedEnd:   p.PlannedEnd,
		ActualEnd:    p.ActualEnd,
	}

	if withFinancials {
		view.TotalFee = p.TotalFee
		margin := p.TargetProfitMargin
		view.TargetProfitMargin = &margin
		budget := p.Budget
		view.Budget = &budget
		cost := p.ActualCost
		view.ActualCost = &cost
	}

	for _, ph := range p.Phases {
		view.Phases = append(view.Phases, NewPhaseView(ph, withFinancials))
	}
	return view
}

type PhaseView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`

	ContractAmount *decimal.Decimal `json:"contractAmount,omitempty"`

	Substages []SubstageView `json:"substages,omitempty"`
}

func NewPhaseView(ph models.Phase, withFinancials bool) PhaseView {
	view := PhaseView{
		ID:       ph.ID,
		Name:     ph.Name,
		Sequence: ph.Sequence,
	}
	if withFinancials {
		view.ContractAmount = ph.ContractAmount
	}
	for _, s := range ph.Substages {
		view.Substages = append(view.Substages, SubstageView{
			ID:          s.ID,
			Name:        s.Name,
			Sequence:    s.Sequence,
			Completed:   s.Completed,
			CompletedAt: s.CompletedAt,
		})
	}
	return view
}

type SubstageView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Sequence    int        `json:"sequence"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type InvoiceView struct {
	ID            uint                 `json:"id"`
	ReferenceID   string               `json:"referenceId"`
	ClientID      uint                 `json:"clientId"`
	ProjectID     *uint                `json:"projectId,omitempty"`
	InvoiceNumber string               `json:"invoiceNumber"`
	IssueDate     string               `json:"issueDate"`
	DueDate       string               `json:"dueDate"`
	Status        models.InvoiceStatus `json:"status"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	CGSTRate   decimal.Decimal `json:"cgstRate"`
	CGSTAmount decimal.Decimal `json:"cgstAmount"`
	SGSTRate   decimal.Decimal `json:"sgstRate"`
	SGSTAmount decimal.Decimal `json:"sgstAmount"`
	IGSTRate   decimal.Decimal `json:"igstRate"`
	IGSTAmount decimal.Decimal `json:"igstAmount"`

	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`

	CumulativeFeePercentage *decimal.Decimal `json:"cumulativeFeePercentage,omitempty"`
	CumulativeFeeAmount     *decimal.Decimal `json:"cumulativeFeeAmount,omitempty"`
	PreviouslyBilledAmount  *decimal.Decimal `json:"previouslyBilledAmount,omitempty"`

	Notes string `json:"notes,omitempty"`
}

const dateLayout = "2006-01-02"

// NewInvoiceView reports the effective status: OVERDUE is derived from
// the due date at read time, never stored.
func NewInvoiceView(inv models.Invoice, now time.Time) InvoiceView {
	return InvoiceView{
		ID:            inv.ID,
		ReferenceID:   inv.ReferenceID.String(),
		ClientID:      inv.ClientID,
		ProjectID:     inv.ProjectID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     time.Time(inv.IssueDate).Format(dateLayout),
		DueDate:       time.Time(inv.DueDate).Format(dateLayout),
		Status:        inv.EffectiveStatus(now),

		Subtotal:   inv.Subtotal,
		CGSTRate:   inv.CGSTRate,
		CGSTAmount: inv.CGSTAmount,
		SGSTRate:   inv.SGSTRate,
		SGSTAmount: inv.SGSTAmount,
		IGSTRate:   inv.IGSTRate,
		IGSTAmount: inv.IGSTAmount,

		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceAmount: inv.BalanceAmount,

		CumulativeFeePercentage: inv.CumulativeFeePercentage,
		CumulativeFeeAmount:     inv.CumulativeFeeAmount,
		PreviouslyBilledAmount:  inv.PreviouslyBilledAmount,

		Notes: inv.Notes,
	}
}
