package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	OrganizationID uint `gorm:"index"`

	UserID uint
	User   User

	Entity   string `gorm:"size:50;not null"` // "client", "project", "invoice"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "status_change", "payment"
	Details  string `gorm:"type:text"`
}
