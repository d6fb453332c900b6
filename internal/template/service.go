package template

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service handles message template CRUD.
type Service struct {
	db *gorm.DB
}

// NewService creates a new template service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all templates.
func (s *Service) List() ([]MessageTemplate, error) {
	var templates []MessageTemplate
	if err := s.db.Order("name").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// Get returns a template by ID, or nil when absent.
func (s *Service) Get(id uint) (*MessageTemplate, error) {
	var t MessageTemplate
	err := s.db.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	return &t, nil
}

// Create stores a new template.
func (s *Service) Create(t *MessageTemplate) error {
	if err := s.db.Create(t).Error; err != nil {
		return fmt.Errorf("create template %s: %w", t.Name, err)
	}
	return nil
}

// Update replaces a template's name and body.
func (s *Service) Update(id uint, name, body string) (bool, error) {
	res := s.db.Model(&MessageTemplate{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "body": body})
	if res.Error != nil {
		return false, fmt.Errorf("update template %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a template, reporting whether a row existed.
func (s *Service) Delete(id uint) (bool, error) {
	res := s.db.Delete(&MessageTemplate{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete template %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
