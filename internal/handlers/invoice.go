package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"archdesk/internal/billing"
	"archdesk/internal/database"
	"archdesk/internal/logger"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func ListInvoices(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	dbq := database.DB.Where("organization_id = ?", orgID).Order("created_at desc")

	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		if pid, err := strconv.Atoi(projectIDStr); err == nil && pid > 0 {
			dbq = dbq.Where("project_id = ?", pid)
		}
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := dbq.Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoices"})
		return
	}

	now := time.Now()
	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, NewInvoiceView(inv, now))
	}
	c.JSON(http.StatusOK, views)
}

func GetInvoice(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var invoice models.Invoice
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&invoice, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}

	c.JSON(http.StatusOK, NewInvoiceView(invoice, time.Now()))
}

type invoiceForm struct {
	ClientID  uint   `json:"clientId" binding:"required"`
	ProjectID *uint  `json:"projectId"`
	IssueDate string `json:"issueDate" binding:"required"`
	DueDate   string `json:"dueDate" binding:"required"`

	// progress billing: bill the project up to this cumulative percentage
	TargetCumulativePercentage *decimal.Decimal `json:"targetCumulativePercentage"`

	// direct billing: explicit subtotal for non-percentage invoices
	Subtotal *decimal.Decimal `json:"subtotal"`

	// statutory rate override; the organization default applies otherwise
	TaxRate *decimal.Decimal `json:"taxRate"`

	Notes string `json:"notes"`
}

// CreateInvoice runs the whole billing path: cumulative progress billing
// for percentage projects, GST split from the org and client states, and
// atomic invoice number allocation. Invariant violations reject the
// request; they are never clamped, since that would corrupt cumulative
// tracking for every later invoice on the project.
func CreateInvoice(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form invoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice payload"})
		return
	}

	issueDate := parseDate(form.IssueDate)
	dueDate := parseDate(form.DueDate)
	if issueDate == nil || dueDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}
	if dueDate.Before(*issueDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due date must not precede issue date"})
		return
	}

	var org models.Organization
	if err := database.DB.First(&org, orgID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return
	}

	var client models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&client, form.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
		return
	}

	invoice := models.Invoice{
		ReferenceID:    uuid.New(),
		OrganizationID: orgID,
		ClientID:       client.ID,
		ProjectID:      form.ProjectID,
		IssueDate:      datatypes.Date(*issueDate),
		DueDate:        datatypes.Date(*dueDate),
		Status:         models.InvoiceDraft,
		Notes:          form.Notes,
	}

	var subtotal decimal.Decimal
	switch {
	case form.TargetCumulativePercentage != nil:
		if form.ProjectID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "progress billing requires a project"})
			return
		}

		var project models.Project
		if err := database.DB.
			Where("organization_id = ?", orgID).
			First(&project, *form.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
		if project.ChargeType != models.ChargePercentage {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project is not billed by fee percentage"})
			return
		}
		if project.TotalFee == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "project has no total fee set"})
			return
		}

		previouslyBilled, err := database.PreviouslyBilledAmount(project.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load billed amount"})
			return
		}

		out, err := billing.ComputeCumulativeBilling(*project.TotalFee, *form.TargetCumulativePercentage, previouslyBilled)
		if errors.Is(err, billing.ErrInvalidBillingState) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "target percentage bills below the amount already invoiced on this project",
			})
			return
		}
		if errors.Is(err, billing.ErrFeeExceeded) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "target percentage exceeds the project total fee",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "billing computation failed"})
			return
		}

		subtotal = out.Subtotal
		invoice.CumulativeFeePercentage = form.TargetCumulativePercentage
		invoice.CumulativeFeeAmount = &out.CumulativeFeeAmount
		invoice.PreviouslyBilledAmount = &previouslyBilled

	case form.Subtotal != nil:
		if form.Subtotal.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subtotal must not be negative"})
			return
		}
		if form.ProjectID != nil {
			var project models.Project
			if err := database.DB.
				Where("organization_id = ?", orgID).
				First(&project, *form.ProjectID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
				return
			}
			if !allowsDirectSubtotal(project.ChargeType) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error": "fee-percentage projects are billed through targetCumulativePercentage",
				})
				return
			}
		}
		subtotal = *form.Subtotal

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either subtotal or targetCumulativePercentage is required"})
		return
	}

	rate := org.DefaultGSTRate
	if form.TaxRate != nil {
		if form.TaxRate.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tax rate must not be negative"})
			return
		}
		rate = *form.TaxRate
	}

	split := billing.ComputeTaxSplit(subtotal, org.State, client.State, rate)
	invoice.Subtotal = split.Subtotal
	invoice.CGSTRate = split.CGSTRate
	invoice.CGSTAmount = split.CGSTAmount
	invoice.SGSTRate = split.SGSTRate
	invoice.SGSTAmount = split.SGSTAmount
	invoice.IGSTRate = split.IGSTRate
	invoice.IGSTAmount = split.IGSTAmount
	invoice.TaxAmount = split.TaxAmount
	invoice.TotalAmount = split.TotalAmount
	invoice.BalanceAmount = split.TotalAmount

	number, err := billing.NextInvoiceNumber(database.SequenceAllocator{}, orgID, issueDate.Year(), org.InvoicePrefix)
	if err != nil {
		logger.L().Error("invoice number allocation failed",
			zap.Uint("org_id", orgID),
			zap.Int("year", issueDate.Year()),
			zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "could not allocate an invoice number, please retry"})
		return
	}
	invoice.InvoiceNumber = number

	if err := database.DB.Create(&invoice).Error; err != nil {
		// unique index backstop: a collision fails the creation, never overwrites
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.L().Error("invoice number collision", zap.String("number", number))
			c.JSON(http.StatusConflict, gin.H{"error": "invoice number already taken, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save invoice"})
		return
	}

	logger.L().Info("invoice created",
		zap.String("number", invoice.InvoiceNumber),
		zap.Uint("org_id", orgID),
		zap.String("total", invoice.TotalAmount.String()))

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "invoice", invoice.ID, "create", "created invoice: "+invoice.InvoiceNumber)
	}

	c.JSON(http.StatusCreated, NewInvoiceView(invoice, time.Now()))
}

type paymentForm struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPayment applies a payment against the invoice balance and marks
// the invoice paid once the balance reaches zero.
func RecordPayment(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var invoice models.Invoice
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&invoice, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}

	if invoice.Status != models.InvoiceSent {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "payments can only be recorded on sent invoices"})
		return
	}

	var form paymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment payload"})
		return
	}
	if !form.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment amount must be positive"})
		return
	}
	if form.Amount.GreaterThan(invoice.BalanceAmount) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "payment exceeds outstanding balance"})
		return
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(form.Amount)
	invoice.BalanceAmount = invoice.TotalAmount.Sub(invoice.PaidAmount)
	if invoice.BalanceAmount.IsZero() {
		invoice.Status = models.InvoicePaid
	}

	if err := database.DB.Save(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save payment"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "invoice", invoice.ID, "payment",
			"recorded payment of "+form.Amount.String()+" on "+invoice.InvoiceNumber)
	}

	c.JSON(http.StatusOK, NewInvoiceView(invoice, time.Now()))
}

func ChangeInvoiceStatus(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var invoice models.Invoice
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&invoice, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}

	var form statusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status payload"})
		return
	}

	newStatus := models.InvoiceStatus(form.Status)
	if !canChangeInvoiceStatus(invoice.Status, newStatus) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "cannot move invoice from " + string(invoice.Status) + " to " + form.Status,
		})
		return
	}

	invoice.Status = newStatus
	if err := database.DB.Save(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "invoice", invoice.ID, "status_change",
			invoice.InvoiceNumber+" status changed to: "+form.Status)
	}

	c.JSON(http.StatusOK, NewInvoiceView(invoice, time.Now()))
}

// Percentage projects bill only through the cumulative path: a direct
// subtotal would raise the previously-billed sum past the fee-cap guard.
func allowsDirectSubtotal(ct models.ChargeType) bool {
	return ct != models.ChargePercentage
}

// PAID is reached through payments only; OVERDUE is derived and can
// never be requested.
func canChangeInvoiceStatus(current, next models.InvoiceStatus) bool {
	switch current {
	case models.InvoiceDraft:
		return next == models.InvoiceSent || next == models.InvoiceCancelled
	case models.InvoiceSent:
		return next == models.InvoiceCancelled
	default:
		return false
	}
}
