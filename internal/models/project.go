package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChargeType string
type ProjectStage string
type ProjectStatus string

const (
	ChargeLumpsum    ChargeType = "LUMPSUM"
	ChargePercentage ChargeType = "PERCENTAGE"
	ChargeHourly     ChargeType = "HOURLY"

	StageConcept          ProjectStage = "CONCEPT"
	StageSchematic        ProjectStage = "SCHEMATIC"
	StageDesignDev        ProjectStage = "DESIGN_DEVELOPMENT"
	StageConstructionDocs ProjectStage = "CONSTRUCTION_DOCS"
	StageConstruction     ProjectStage = "CONSTRUCTION"

	StatusActive    ProjectStatus = "ACTIVE"
	StatusProgress  ProjectStatus = "PROGRESS"
	StatusOnHold    ProjectStatus = "ON_HOLD"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusCancelled ProjectStatus = "CANCELLED"
)

// ActiveProjectStatuses is the single source of truth for which projects
// count towards dashboard metrics. Both the active-scoped and the
// all-invoices aggregation paths read it from here.
func ActiveProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusActive, StatusProgress}
}

type Project struct {
	gorm.Model
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization

	ClientID uint `gorm:"index;not null"`
	Client   Client

	Name        string        `gorm:"size:255;not null"`
	ChargeType  ChargeType    `gorm:"type:varchar(20);not null"`
	Stage       ProjectStage  `gorm:"type:varchar(30);not null"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null"`
	Description string        `gorm:"type:text"`

	// financial fields, visibility-gated at the handler layer
	TotalFee           *decimal.Decimal `gorm:"type:decimal(18,2)"`
	TargetProfitMargin decimal.Decimal  `gorm:"type:decimal(5,4);not null;default:0"` // 0..1
	Budget             decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	ActualCost         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`

	PlannedStart *time.Time
	PlannedEnd   *time.Time
	ActualEnd    *time.Time

	PrincipalID uint // User.ID of the principal in charge

	Phases   []Phase
	Invoices []Invoice
}
