package handlers

import (
	"testing"

	"archdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidChargeType(t *testing.T) {
	assert.True(t, validChargeType(models.ChargeLumpsum))
	assert.True(t, validChargeType(models.ChargePercentage))
	assert.True(t, validChargeType(models.ChargeHourly))

	assert.False(t, validChargeType("BOGUS"))
	assert.False(t, validChargeType(""))
	assert.False(t, validChargeType("percentage")) // case matters
}

func TestValidProjectStage(t *testing.T) {
	for _, s := range []models.ProjectStage{
		models.StageConcept,
		models.StageSchematic,
		models.StageDesignDev,
		models.StageConstructionDocs,
		models.StageConstruction,
	} {
		assert.True(t, validProjectStage(s), "stage %s", s)
	}

	assert.False(t, validProjectStage("BOGUS"))
	assert.False(t, validProjectStage(""))
}

func TestValidProjectStatus(t *testing.T) {
	for _, s := range []models.ProjectStatus{
		models.StatusActive,
		models.StatusProgress,
		models.StatusOnHold,
		models.StatusCompleted,
		models.StatusCancelled,
	} {
		assert.True(t, validProjectStatus(s), "status %s", s)
	}

	assert.False(t, validProjectStatus("ARCHIVED"))
	assert.False(t, validProjectStatus(""))
}

func TestApplyProjectForm_KeepsFeeWhenOmitted(t *testing.T) {
	project := sampleProject()

	applyProjectForm(&project, projectForm{
		Name:       "Lakeview Residence II",
		ChargeType: string(models.ChargePercentage),
		Stage:      string(models.StageDesignDev),
	})

	require.NotNil(t, project.TotalFee)
	assert.True(t, project.TotalFee.Equal(decimal.NewFromInt(500000)))
	assert.True(t, project.TargetProfitMargin.Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, project.Budget.Equal(decimal.NewFromInt(400000)))

	assert.Equal(t, "Lakeview Residence II", project.Name)
	assert.Equal(t, models.StageDesignDev, project.Stage)
}

func TestApplyProjectForm_UpdatesFeeWhenPresent(t *testing.T) {
	project := sampleProject()

	fee := decimal.NewFromInt(750000)
	budget := decimal.NewFromInt(600000)
	applyProjectForm(&project, projectForm{
		Name:       "Lakeview Residence",
		ChargeType: string(models.ChargePercentage),
		Stage:      string(models.StageSchematic),
		TotalFee:   &fee,
		Budget:     &budget,
	})

	require.NotNil(t, project.TotalFee)
	assert.True(t, project.TotalFee.Equal(fee))
	assert.True(t, project.Budget.Equal(budget))
}

func TestCanChangeProjectStatus(t *testing.T) {
	// admins may do anything except a no-op
	assert.True(t, canChangeProjectStatus(models.RoleAdmin, models.StatusCompleted, models.StatusActive))
	assert.False(t, canChangeProjectStatus(models.RoleAdmin, models.StatusActive, models.StatusActive))

	// principals cannot reopen closed projects
	assert.True(t, canChangeProjectStatus(models.RolePrincipal, models.StatusProgress, models.StatusCompleted))
	assert.False(t, canChangeProjectStatus(models.RolePrincipal, models.StatusCompleted, models.StatusActive))

	// architects move work forward only
	assert.True(t, canChangeProjectStatus(models.RoleArchitect, models.StatusActive, models.StatusProgress))
	assert.True(t, canChangeProjectStatus(models.RoleArchitect, models.StatusProgress, models.StatusOnHold))
	assert.False(t, canChangeProjectStatus(models.RoleArchitect, models.StatusActive, models.StatusCancelled))

	assert.False(t, canChangeProjectStatus(models.RoleAccounts, models.StatusActive, models.StatusProgress))
}
