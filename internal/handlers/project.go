package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"archdesk/internal/billing"
	"archdesk/internal/database"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ListProjects(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	role, _ := middleware.SessionRole(c)

	dbq := database.DB.Where("organization_id = ?", orgID).Order("created_at desc")

	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		if cid, err := strconv.Atoi(clientIDStr); err == nil && cid > 0 {
			dbq = dbq.Where("client_id = ?", cid)
		}
	}
	if stage := c.Query("stage"); stage != "" {
		dbq = dbq.Where("stage = ?", stage)
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, NewProjectView(p, role.CanViewFinancials()))
	}
	c.JSON(http.StatusOK, views)
}

func GetProject(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	role, _ := middleware.SessionRole(c)

	var project models.Project
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("phases.sequence asc") }).
		Preload("Phases.Substages").
		First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, NewProjectView(project, role.CanViewFinancials()))
}

type projectForm struct {
	Name        string `json:"name" binding:"required,min=3"`
	ClientID    uint   `json:"clientId" binding:"required"`
	ChargeType  string `json:"chargeType" binding:"required"`
	Stage       string `json:"stage" binding:"required"`
	Description string `json:"description"`

	TotalFee           *decimal.Decimal `json:"totalFee"`
	TargetProfitMargin *decimal.Decimal `json:"targetProfitMargin"`
	Budget             *decimal.Decimal `json:"budget"`

	PlannedStart string `json:"plannedStart"`
	PlannedEnd   string `json:"plannedEnd"`
}

func CreateProject(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form projectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
		return
	}

	chargeType := models.ChargeType(form.ChargeType)
	if !validChargeType(chargeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid charge type"})
		return
	}

	stage := models.ProjectStage(form.Stage)
	if !validProjectStage(stage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project stage"})
		return
	}

	margin := decimal.Zero
	if form.TargetProfitMargin != nil {
		margin = *form.TargetProfitMargin
		if margin.IsNegative() || margin.GreaterThan(decimal.NewFromInt(1)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target profit margin must be between 0 and 1"})
			return
		}
	}
	if form.TotalFee != nil && form.TotalFee.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total fee must not be negative"})
		return
	}

	var client models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&client, form.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
		return
	}

	budget := decimal.Zero
	if form.Budget != nil {
		budget = *form.Budget
	}

	uid, _ := middleware.SessionUserID(c)

	project := models.Project{
		OrganizationID:     orgID,
		ClientID:           client.ID,
		Name:               strings.TrimSpace(form.Name),
		ChargeType:         chargeType,
		Stage:              stage,
		Status:             models.StatusActive,
		Description:        form.Description,
		TotalFee:           form.TotalFee,
		TargetProfitMargin: margin,
		Budget:             budget,
		PlannedStart:       parseDate(form.PlannedStart),
		PlannedEnd:         parseDate(form.PlannedEnd),
		PrincipalID:        uid,
	}

	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save project"})
		return
	}

	if uid != 0 {
		database.CreateAuditLog(orgID, uid, "project", project.ID, "create", "created project: "+project.Name)
	}

	role, _ := middleware.SessionRole(c)
	c.JSON(http.StatusCreated, NewProjectView(project, role.CanViewFinancials()))
}

func UpdateProject(c *gin.Context) {
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

	var form projectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
		return
	}

	if !validChargeType(models.ChargeType(form.ChargeType)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid charge type"})
		return
	}
	if !validProjectStage(models.ProjectStage(form.Stage)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project stage"})
		return
	}
	if form.TargetProfitMargin != nil &&
		(form.TargetProfitMargin.IsNegative() || form.TargetProfitMargin.GreaterThan(decimal.NewFromInt(1))) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target profit margin must be between 0 and 1"})
		return
	}
	if form.TotalFee != nil && form.TotalFee.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total fee must not be negative"})
		return
	}

	var client models.Client
	if err := database.DB.
		Where("organization_id = ?", orgID).
		First(&client, form.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
		return
	}

	project.ClientID = client.ID
	applyProjectForm(&project, form)

	if err := database.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save project"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "project", project.ID, "update", "updated project: "+project.Name)
	}

	role, _ := middleware.SessionRole(c)
	c.JSON(http.StatusOK, NewProjectView(project, role.CanViewFinancials()))
}

func validChargeType(ct models.ChargeType) bool {
	switch ct {
	case models.ChargeLumpsum, models.ChargePercentage, models.ChargeHourly:
		return true
	}
	return false
}

func validProjectStage(s models.ProjectStage) bool {
	switch s {
	case models.StageConcept,
		models.StageSchematic,
		models.StageDesignDev,
		models.StageConstructionDocs,
		models.StageConstruction:
		return true
	}
	return false
}

func validProjectStatus(s models.ProjectStatus) bool {
	switch s {
	case models.StatusActive,
		models.StatusProgress,
		models.StatusOnHold,
		models.StatusCompleted,
		models.StatusCancelled:
		return true
	}
	return false
}

// applyProjectForm copies updatable fields onto the project. Optional
// fields change only when the payload carries them; an omitted total fee
// keeps its stored value rather than clearing it.
func applyProjectForm(p *models.Project, form projectForm) {
	p.Name = strings.TrimSpace(form.Name)
	p.ChargeType = models.ChargeType(form.ChargeType)
	p.Stage = models.ProjectStage(form.Stage)
	p.Description = form.Description

	if form.TotalFee != nil {
		p.TotalFee = form.TotalFee
	}
	if form.TargetProfitMargin != nil {
		p.TargetProfitMargin = *form.TargetProfitMargin
	}
	if form.Budget != nil {
		p.Budget = *form.Budget
	}
	if d := parseDate(form.PlannedStart); d != nil {
		p.PlannedStart = d
	}
	if d := parseDate(form.PlannedEnd); d != nil {
		p.PlannedEnd = d
	}
}

type statusForm struct {
	Status string `json:"status" binding:"required"`
}

func ChangeProjectStatus(c *gin.Context) {
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

	var form statusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status payload"})
		return
	}

	newStatus := models.ProjectStatus(form.Status)
	if !validProjectStatus(newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	role, _ := middleware.SessionRole(c)
	if !canChangeProjectStatus(role, project.Status, newStatus) {
		c.JSON(http.StatusForbidden, gin.H{"error": "status change not allowed for this role"})
		return
	}

	if newStatus == models.StatusCompleted {
		now := time.Now()
		project.ActualEnd = &now
	}
	project.Status = newStatus

	if err := database.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	if uid, ok := middleware.SessionUserID(c); ok {
		database.CreateAuditLog(orgID, uid, "project", project.ID, "status_change",
			"status changed to: "+string(newStatus))
	}

	c.JSON(http.StatusOK, NewProjectView(project, role.CanViewFinancials()))
}

// role rules for the project lifecycle
func canChangeProjectStatus(role models.UserRole, current, next models.ProjectStatus) bool {
	if current == next {
		return false
	}

	switch role {

	case models.RoleAdmin:
		return true

	case models.RolePrincipal:
		// principals run the lifecycle but cannot reopen closed projects
		return current != models.StatusCompleted && current != models.StatusCancelled

	case models.RoleArchitect:
		switch current {
		case models.StatusActive:
			return next == models.StatusProgress
		case models.StatusProgress:
			return next == models.StatusOnHold
		}
		return false

	default:
		return false
	}
}

// ProjectBurnRate computes the budget-health snapshot for one project.
// The route is financial-only; the snapshot carries fees and margins.
func ProjectBurnRate(c *gin.Context) {
	orgID, ok := middleware.SessionOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var project models.Project
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("phases.sequence asc") }).
		Preload("Phases.Assignments").
		First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	in := billing.BurnRateInput{
		TotalFee:           project.TotalFee,
		TargetProfitMargin: project.TargetProfitMargin,
	}
	for _, ph := range project.Phases {
		phase := billing.PhaseBurnInput{
			PhaseID:        ph.ID,
			Name:           ph.Name,
			ContractAmount: ph.ContractAmount,
		}
		for _, a := range ph.Assignments {
			phase.Assignments = append(phase.Assignments, billing.AssignmentCost{
				Hours: a.PlannedHours,
				Rate:  a.BurnRate,
			})
		}
		in.Phases = append(in.Phases, phase)
	}

	c.JSON(http.StatusOK, billing.ComputeBurnRate(in))
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
