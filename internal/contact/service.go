package contact

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles contact-related operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new contact service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns contacts, optionally filtered by group.
func (s *Service) List(group string) ([]Contact, error) {
	var contacts []Contact
	q := s.db.Order("name")
	if group != "" {
		q = q.Where("group_name = ?", group)
	}
	if err := q.Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns the contact for a phone number, or nil when absent.
func (s *Service) Get(phone string) (*Contact, error) {
	var c Contact
	err := s.db.Where("phone = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", phone, err)
	}
	return &c, nil
}

// Upsert inserts or updates a contact keyed by phone number.
func (s *Service) Upsert(c *Contact) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "group_name", "note", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("upsert contact %s: %w", c.Phone, err)
	}
	return nil
}

// Delete removes the contact for a phone number, reporting whether a row
// existed.
func (s *Service) Delete(phone string) (bool, error) {
	res := s.db.Where("phone = ?", phone).Delete(&Contact{})
	if res.Error != nil {
		return false, fmt.Errorf("delete contact %s: %w", phone, res.Error)
	}
	return res.RowsAffected > 0, nil
}
