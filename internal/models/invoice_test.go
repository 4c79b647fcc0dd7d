package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestInvoice_EffectiveStatus(t *testing.T) {
	due := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	inv := Invoice{
		Status:        InvoiceSent,
		DueDate:       datatypes.Date(due),
		BalanceAmount: decimal.NewFromInt(5000),
	}

	// still on the due date: not overdue
	onDueDate := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, InvoiceSent, inv.EffectiveStatus(onDueDate))

	// day after: derived OVERDUE, stored status untouched
	after := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, InvoiceOverdue, inv.EffectiveStatus(after))
	assert.Equal(t, InvoiceSent, inv.Status)
}

func TestInvoice_EffectiveStatus_NotDerivedWithoutBalance(t *testing.T) {
	due := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	paid := Invoice{Status: InvoicePaid, DueDate: datatypes.Date(due)}
	assert.Equal(t, InvoicePaid, paid.EffectiveStatus(after))

	settled := Invoice{
		Status:        InvoiceSent,
		DueDate:       datatypes.Date(due),
		BalanceAmount: decimal.Zero,
	}
	assert.Equal(t, InvoiceSent, settled.EffectiveStatus(after))

	draft := Invoice{
		Status:        InvoiceDraft,
		DueDate:       datatypes.Date(due),
		BalanceAmount: decimal.NewFromInt(100),
	}
	assert.Equal(t, InvoiceDraft, draft.EffectiveStatus(after))
}
