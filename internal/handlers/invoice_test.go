package handlers

import (
	"testing"

	"archdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAllowsDirectSubtotal(t *testing.T) {
	assert.True(t, allowsDirectSubtotal(models.ChargeLumpsum))
	assert.True(t, allowsDirectSubtotal(models.ChargeHourly))

	// only the cumulative path may bill a percentage project
	assert.False(t, allowsDirectSubtotal(models.ChargePercentage))
}

func TestCanChangeInvoiceStatus(t *testing.T) {
	assert.True(t, canChangeInvoiceStatus(models.InvoiceDraft, models.InvoiceSent))
	assert.True(t, canChangeInvoiceStatus(models.InvoiceDraft, models.InvoiceCancelled))
	assert.True(t, canChangeInvoiceStatus(models.InvoiceSent, models.InvoiceCancelled))

	// paid only through payments, overdue only derived
	assert.False(t, canChangeInvoiceStatus(models.InvoiceDraft, models.InvoicePaid))
	assert.False(t, canChangeInvoiceStatus(models.InvoiceSent, models.InvoiceOverdue))
	assert.False(t, canChangeInvoiceStatus(models.InvoicePaid, models.InvoiceSent))
	assert.False(t, canChangeInvoiceStatus(models.InvoiceCancelled, models.InvoiceSent))
}
