package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RolePrincipal UserRole = "principal"
	RoleArchitect UserRole = "architect"
	RoleAccounts  UserRole = "accounts"
)

type User struct {
	gorm.Model
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization

	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
}

// CanViewFinancials reports whether the role may see fee, margin and
// contract-amount fields. Architects see project structure only.
func (r UserRole) CanViewFinancials() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleAccounts:
		return true
	default:
		return false
	}
}
