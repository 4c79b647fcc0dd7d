package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Organization struct {
	gorm.Model
	ReferenceID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Name  string `gorm:"size:255;not null"`
	State string `gorm:"size:100"` // GST jurisdiction, e.g. "Karnataka"

	// invoice numbering: <prefix>-<year>-<seq>
	InvoicePrefix string `gorm:"size:20;not null;default:'INV'"`

	// statutory GST rate applied when an invoice does not override it
	DefaultGSTRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18"`

	Users    []User
	Clients  []Client
	Projects []Project
}
