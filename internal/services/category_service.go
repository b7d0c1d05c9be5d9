package services

import (
	"strings"

	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// CategoryService manages the category buckets the matcher resolves against.
type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// ListActive returns all active, non-deleted categories ordered by name.
func (s *CategoryService) ListActive() ([]models.ContributionCategory, error) {
	var categories []models.ContributionCategory
	err := s.DB.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// Create adds a new active category. Codes are stored uppercased since they
// are matched case-insensitively against bill references.
func (s *CategoryService) Create(name, code, description string) (*models.ContributionCategory, error) {
	category := models.ContributionCategory{
		Name:        strings.TrimSpace(name),
		Code:        strings.ToUpper(strings.TrimSpace(code)),
		Description: description,
		IsActive:    true,
	}
	if err := s.DB.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
