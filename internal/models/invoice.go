package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"

	// derived only, never stored
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

type Invoice struct {
	gorm.Model
	ReferenceID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization

	ClientID uint `gorm:"index;not null"`
	Client   Client

	// optional: standalone invoices have no project
	ProjectID *uint `gorm:"index"`
	Project   *Project

	// uniqueness is the backstop for concurrent sequence allocation
	InvoiceNumber string `gorm:"size:50;not null;uniqueIndex"`

	IssueDate datatypes.Date
	DueDate   datatypes.Date

	Status InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	Subtotal decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	CGSTRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CGSTAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SGSTRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IGSTRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	// progress-billing state, fixed at creation and never recomputed
	CumulativeFeePercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	CumulativeFeeAmount     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	PreviouslyBilledAmount  *decimal.Decimal `gorm:"type:decimal(18,2)"`

	Notes string `gorm:"type:text"`
}

// EffectiveStatus derives OVERDUE from the due date; the stored status
// is never rewritten.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoiceSent &&
		i.BalanceAmount.IsPositive() &&
		time.Time(i.DueDate).Before(now.Truncate(24*time.Hour)) {
		return InvoiceOverdue
	}
	return i.Status
}

// InvoiceSequence is the per-organization, per-year counter backing
// invoice number allocation. LastSequence is advanced under a row lock.
type InvoiceSequence struct {
	ID             uint `gorm:"primaryKey"`
	OrganizationID uint `gorm:"not null;uniqueIndex:idx_invoice_seq_org_year"`
	Year           int  `gorm:"not null;uniqueIndex:idx_invoice_seq_org_year"`
	LastSequence   int  `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
