package database

import "archdesk/internal/models"

// audit trail helper; failures are deliberately swallowed so audit
// writes never break the main operation
func CreateAuditLog(orgID, userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Entity:         entity,
		EntityID:       entityID,
		Action:         action,
		Details:        details,
	}
	_ = DB.Create(&record).Error
}
