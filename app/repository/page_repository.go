package repository

import (
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
)

// pageRepository implements the PageRepository interface
type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a new page repository instance
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

// Create creates a new page in the database
func (r *pageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

// GetByID retrieves a page by its ID
func (r *pageRepository) GetByID(id uint) (*models.Page, error) {
	var page models.Page
	err := r.db.First(&page, id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBySlug retrieves an active page by its slug
func (r *pageRepository) GetBySlug(slug string) (*models.Page, error) {
	var page models.Page
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetActive retrieves all active pages ordered by slug
func (r *pageRepository) GetActive() ([]models.Page, error) {
	var pages []models.Page
	err := r.db.Where("is_active = ?", true).Order("slug").Find(&pages).Error
	return pages, err
}

// Update updates an existing page in the database
func (r *pageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

// DeleteByIDs removes pages and returns how many were removed
func (r *pageRepository) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Page{})
	return result.RowsAffected, result.Error
}

// SlugExistsExceptID checks if a slug is taken by another page. Pass 0 on create.
func (r *pageRepository) SlugExistsExceptID(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Page{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	return count > 0, err
}
