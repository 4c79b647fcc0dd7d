package handlers

import (
	"net/http"

	"archdesk/internal/database"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var logs []models.AuditLog
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
