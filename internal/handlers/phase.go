package handlers

import (
	"net/http"
	"strings"
	"time"

	"archdesk/internal/database"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func ListPhases(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	role, _ := middleware.SessionRole(c)

	var project models.Project
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	var phases []models.Phase
	if err := database.DB.
		Where("project_id = ?", project.ID).
		Preload("Substages").
		Order("sequence asc").
		Find(&phases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load phases"})
		return
	}

	views := make([]PhaseView, 0, len(phases))
	for _, ph := range phases {
		views = append(views, NewPhaseView(ph, role.CanViewFinancials()))
	}
	c.JSON(http.StatusOK, views)
}

type phaseForm struct {
	Name           string           `json:"name" binding:"required,min=2"`
	Sequence       int              `json:"sequence"`
	ContractAmount *decimal.Decimal `json:"contractAmount"`
	Substages      []string         `json:"substages"`
}

func CreatePhase(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var project models.Project
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	var form phaseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase payload"})
		return
	}
	if form.ContractAmount != nil && form.ContractAmount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contract amount must not be negative"})
		return
	}

	phase := models.Phase{
		ProjectID:      project.ID,
		Name:           strings.TrimSpace(form.Name),
		Sequence:       form.Sequence,
		ContractAmount: form.ContractAmount,
	}
	for i, name := range form.Substages {
		phase.Substages = append(phase.Substages, models.Substage{
			Name:     strings.TrimSpace(name),
			Sequence: i + 1,
		})
	}

	if err := database.DB.Create(&phase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save phase"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "phase", phase.ID, "create", "created phase: "+phase.Name)
	}

	role, _ := middleware.SessionRole(c)
	c.JSON(http.StatusCreated, NewPhaseView(phase, role.CanViewFinancials()))
}

// CompleteSubstage stamps who finished the substage and when. Completion
// is not reversible through the API.
func CompleteSubstage(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var substage models.Substage
	if err := database.DB.
		Select("substages.*").
		Joins("JOIN phases ON phases.id = substages.phase_id").
		Joins("JOIN projects ON projects.id = phases.project_id").
		Where("projects.organization_id = ? AND substages.phase_id = ? AND substages.id = ?",
			orgID, c.Param("id"), c.Param("sid")).
		First(&substage).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "substage not found"})
		return
	}

	if substage.Completed {
		c.JSON(http.StatusConflict, gin.H{"error": "substage already completed"})
		return
	}

	uid, _ := middleware.SessionUserID(c)
	now := time.Now()
	substage.Completed = true
	substage.CompletedAt = &now
	if uid != 0 {
		substage.CompletedByID = &uid
	}

	if err := database.DB.Save(&substage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update substage"})
		return
	}

	if uid != 0 {
		database.CreateAuditLog(orgID, uid, "substage", substage.ID, "complete", "completed substage: "+substage.Name)
	}

	c.JSON(http.StatusOK, SubstageView{
		ID:          substage.ID,
		Name:        substage.Name,
		Sequence:    substage.Sequence,
		Completed:   substage.Completed,
		CompletedAt: substage.CompletedAt,
	})
}

type assignmentForm struct {
	UserID       uint            `json:"userId" binding:"required"`
	PlannedHours decimal.Decimal `json:"plannedHours" binding:"required"`
	BurnRate     decimal.Decimal `json:"burnRate" binding:"required"`
}

// CreateAssignment books a user onto a phase; hours * burn rate feed the
// burn-rate evaluator.
func CreateAssignment(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var phase models.Phase
	if err := database.DB.
		Select("phases.*").
		Joins("JOIN projects ON projects.id = phases.project_id").
		Where("projects.organization_id = ? AND phases.id = ?", orgID, c.Param("id")).
		First(&phase).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "phase not found"})
		return
	}

	var form assignmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment payload"})
		return
	}
	if form.PlannedHours.IsNegative() || form.BurnRate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours and burn rate must not be negative"})
		return
	}

	var user models.User
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&user, form.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}

	assignment := models.ResourceAssignment{
		PhaseID:      phase.ID,
		UserID:       user.ID,
		PlannedHours: form.PlannedHours,
		BurnRate:     form.BurnRate,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save assignment"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "assignment", assignment.ID, "create",
			"assigned "+user.Username+" to phase: "+phase.Name)
	}

	c.JSON(http.StatusCreated, assignment)
}
