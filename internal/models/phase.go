package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Phase struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`
	Project   Project

	Name     string `gorm:"size:255;not null"`
	Sequence int    `gorm:"not null;default:0"`

	// phase budget for burn tracking, visibility-gated
	ContractAmount *decimal.Decimal `gorm:"type:decimal(18,2)"`

	Substages   []Substage
	Assignments []ResourceAssignment
}

type Substage struct {
	gorm.Model
	PhaseID uint `gorm:"index;not null"`

	Name     string `gorm:"size:255;not null"`
	Sequence int    `gorm:"not null;default:0"`

	Completed     bool `gorm:"not null;default:false"`
	CompletedAt   *time.Time
	CompletedByID *uint
	CompletedBy   *User `gorm:"foreignKey:CompletedByID"`
}

// ResourceAssignment links a user to a phase; contributes
// hours * burn rate to the phase and project burn.
type ResourceAssignment struct {
	gorm.Model
	PhaseID uint `gorm:"index;not null"`
	Phase   Phase

	UserID uint `gorm:"index;not null"`
	User   User

	PlannedHours decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BurnRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // cost per hour
}
