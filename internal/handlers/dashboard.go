package handlers

import (
	"net/http"

	"archdesk/internal/billing"
	"archdesk/internal/database"
	"archdesk/internal/logger"
	"archdesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FinancialHealth rolls up the organization's invoices into the dashboard
// snapshot. Degenerate inputs (no invoices yet) still render: every rate
// resolves to zero, never an error.
func FinancialHealth(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	rows, err := database.FinancialHealthRows(orgID)
	if err != nil {
		logger.L().Error("financial health query failed", zap.Uint("org_id", orgID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load financial data"})
		return
	}

	c.JSON(http.StatusOK, billing.ComputeFinancialHealth(rows))
}
