package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization

	Name  string `gorm:"size:255;not null"`
	GSTIN string `gorm:"size:15"`
	State string `gorm:"size:100"` // GST jurisdiction; decides CGST/SGST vs IGST

	ContactName  string `gorm:"size:255"`
	ContactEmail string `gorm:"size:255"`
	ContactPhone string `gorm:"size:50"`
	Address      string `gorm:"type:text"`
	Notes        string `gorm:"type:text"`

	Projects []Project
	Invoices []Invoice
}
