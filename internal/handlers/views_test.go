package handlers

import (
	"testing"

	"archdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() models.Project {
	fee := decimal.NewFromInt(500000)
	contract := decimal.NewFromInt(100000)
	return models.Project{
		Name:               "Lakeview Residence",
		ChargeType:         models.ChargePercentage,
		Stage:              models.StageSchematic,
		Status:             models.StatusActive,
		TotalFee:           &fee,
		TargetProfitMargin: decimal.NewFromFloat(0.2),
		Budget:             decimal.NewFromInt(400000),
		Phases: []models.Phase{
			{Name: "Concept", Sequence: 1, ContractAmount: &contract},
		},
	}
}

func TestNewProjectView_WithFinancials(t *testing.T) {
	view := NewProjectView(sampleProject(), true)

	require.NotNil(t, view.TotalFee)
	assert.True(t, view.TotalFee.Equal(decimal.NewFromInt(500000)))
	require.NotNil(t, view.TargetProfitMargin)
	require.NotNil(t, view.Budget)

	require.Len(t, view.Phases, 1)
	require.NotNil(t, view.Phases[0].ContractAmount)
}

func TestNewProjectView_WithoutFinancials(t *testing.T) {
	view := NewProjectView(sampleProject(), false)

	assert.Nil(t, view.TotalFee)
	assert.Nil(t, view.TargetProfitMargin)
	assert.Nil(t, view.Budget)
	assert.Nil(t, view.ActualCost)

	// structure stays visible, money does not
	assert.Equal(t, "Lakeview Residence", view.Name)
	require.Len(t, view.Phases, 1)
	assert.Equal(t, "Concept", view.Phases[0].Name)
	assert.Nil(t, view.Phases[0].ContractAmount)
}
