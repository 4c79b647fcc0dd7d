package database

import (
	"errors"
	"fmt"

	"archdesk/internal/billing"
	"archdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceAllocator reserves invoice sequence numbers against the
// invoice_sequences counter table. The counter row is advanced under a
// row lock; the unique index on invoices.invoice_number is the backstop
// if anything slips through.
type SequenceAllocator struct{}

var _ billing.Allocator = SequenceAllocator{}

// Reserve atomically hands out the next sequence for an organization and
// year. A missing counter row is seeded from a max-suffix scan of the
// organization's existing invoice numbers, so numbering continues from
// whatever was issued before the counter existed.
func (SequenceAllocator) Reserve(orgID uint, year int) (int, error) {
	var seq int

	err := DB.Transaction(func(tx *gorm.DB) error {
		var row models.InvoiceSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("organization_id = ? AND year = ?", orgID, year).
			First(&row).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			last, seedErr := maxExistingSequence(tx, orgID, year)
			if seedErr != nil {
				return seedErr
			}
			row = models.InvoiceSequence{
				OrganizationID: orgID,
				Year:           year,
				LastSequence:   last,
			}
			if err := tx.Create(&row).Error; err != nil {
				// concurrent seeding of the same counter row
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("seed counter for org %d year %d: %w", orgID, year, billing.ErrSequenceConflict)
				}
				return err
			}
		} else if err != nil {
			return err
		}

		row.LastSequence++
		if err := tx.Model(&models.InvoiceSequence{}).
			Where("id = ?", row.ID).
			Update("last_sequence", row.LastSequence).Error; err != nil {
			return err
		}

		seq = row.LastSequence
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func maxExistingSequence(tx *gorm.DB, orgID uint, year int) (int, error) {
	var org models.Organization
	if err := tx.First(&org, orgID).Error; err != nil {
		return 0, err
	}

	lead := fmt.Sprintf("%s-%d-", org.InvoicePrefix, year)
	var numbers []string
	if err := tx.Model(&models.Invoice{}).
		Where("organization_id = ? AND invoice_number LIKE ?", orgID, lead+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return 0, err
	}

	return billing.MaxSequence(numbers, org.InvoicePrefix, year), nil
}
