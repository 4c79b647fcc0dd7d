package database

import (
	"log"
	"os"
	"time"

	"archdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		// TranslateError maps unique violations to gorm.ErrDuplicatedKey,
		// which the sequence allocator relies on
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	err = DB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Phase{},
		&models.Substage{},
		&models.ResourceAssignment{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedDefaultOrganization()
}

// bootstrap tenant + admin, overridable from env
func seedDefaultOrganization() {
	var count int64
	if err := DB.Model(&models.Organization{}).Count(&count).Error; err != nil {
		log.Printf("failed to check organizations: %v", err)
		return
	}
	if count > 0 {
		return
	}

	name := os.Getenv("ORG_NAME")
	if name == "" {
		name = "Default Studio"
	}
	state := os.Getenv("ORG_STATE")
	if state == "" {
		state = "Karnataka"
	}
	prefix := os.Getenv("ORG_INVOICE_PREFIX")
	if prefix == "" {
		prefix = "INV"
	}

	org := models.Organization{
		ReferenceID:    uuid.New(),
		Name:           name,
		State:          state,
		InvoicePrefix:  prefix,
		DefaultGSTRate: decimal.NewFromInt(18),
	}
	if err := DB.Create(&org).Error; err != nil {
		log.Printf("failed to create default organization: %v", err)
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@studio.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		OrganizationID: org.ID,
		Username:       username,
		PasswordHash:   string(hash),
		Role:           models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created organization %q with admin user %s", org.Name, admin.Username)
}
