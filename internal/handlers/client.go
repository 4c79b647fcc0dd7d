package handlers

import (
	"net/http"
	"strings"

	"archdesk/internal/database"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-gonic/gin"
)

func ListClients(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var clients []models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Order("name asc").
		Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}

	c.JSON(http.StatusOK, clients)
}

func GetClient(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var client models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Preload("Projects").
		First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	role, _ := middleware.SessionRole(c)
	projects := make([]ProjectView, 0, len(client.Projects))
	for _, p := range client.Projects {
		projects = append(projects, NewProjectView(p, role.CanViewFinancials()))
	}

	c.JSON(http.StatusOK, gin.H{"client": client, "projects": projects})
}

type clientForm struct {
	Name         string `json:"name" binding:"required,min=2"`
	GSTIN        string `json:"gstin"`
	State        string `json:"state"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone string `json:"contactPhone"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

func CreateClient(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client payload"})
		return
	}

	client := models.Client{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(form.Name),
		GSTIN:          strings.TrimSpace(form.GSTIN),
		State:          strings.TrimSpace(form.State),
		ContactName:    form.ContactName,
		ContactEmail:   form.ContactEmail,
		ContactPhone:   form.ContactPhone,
		Address:        form.Address,
		Notes:          form.Notes,
	}

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save client"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "client", client.ID, "create", "created client: "+client.Name)
	}

	c.JSON(http.StatusCreated, client)
}

func UpdateClient(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var client models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client payload"})
		return
	}

	client.Name = strings.TrimSpace(form.Name)
	client.GSTIN = strings.TrimSpace(form.GSTIN)
	client.State = strings.TrimSpace(form.State)
	client.ContactName = form.ContactName
	client.ContactEmail = form.ContactEmail
	client.ContactPhone = form.ContactPhone
	client.Address = form.Address
	client.Notes = form.Notes

	if err := database.DB.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save client"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "client", client.ID, "update", "updated client: "+client.Name)
	}

	c.JSON(http.StatusOK, client)
}
