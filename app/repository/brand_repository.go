package repository

import (
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// brandRepository implements the BrandRepository interface. Partners and
// sponsors share one row layout in two tables.
type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new brand repository instance
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) table(collection assetpath.Collection) (*gorm.DB, error) {
	c, err := assetpath.ParseCollection(string(collection))
	if err != nil {
		return nil, err
	}
	return r.db.Table(string(c)), nil
}

// Create inserts a brand into its collection table
func (r *brandRepository) Create(collection assetpath.Collection, brand *models.Brand) error {
	q, err := r.table(collection)
	if err != nil {
		return err
	}
	return q.Create(brand).Error
}

// GetByID retrieves a brand by its ID
func (r *brandRepository) GetByID(collection assetpath.Collection, id uint) (*models.Brand, error) {
	q, err := r.table(collection)
	if err != nil {
		return nil, err
	}
	var brand models.Brand
	if err := q.Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetByIDs retrieves the existing brands among ids
func (r *brandRepository) GetByIDs(collection assetpath.Collection, ids []uint) ([]models.Brand, error) {
	q, err := r.table(collection)
	if err != nil {
		return nil, err
	}
	var brands []models.Brand
	if len(ids) == 0 {
		return brands, nil
	}
	err = q.Where("id IN ?", ids).Order("id").Find(&brands).Error
	return brands, err
}

// Update saves the non-image fields of a brand
func (r *brandRepository) Update(collection assetpath.Collection, brand *models.Brand) error {
	q, err := r.table(collection)
	if err != nil {
		return err
	}
	return q.Where("id = ?", brand.ID).Updates(map[string]interface{}{
		"name":      brand.Name,
		"link":      brand.Link,
		"is_active": brand.IsActive,
	}).Error
}

// UpdateImageKey stores the key of the brand image
func (r *brandRepository) UpdateImageKey(collection assetpath.Collection, id uint, key *string) error {
	q, err := r.table(collection)
	if err != nil {
		return err
	}
	return q.Where("id = ?", id).Update("image_key", key).Error
}

// DeleteByIDs removes brands in one statement
func (r *brandRepository) DeleteByIDs(collection assetpath.Collection, ids []uint) (int64, error) {
	q, err := r.table(collection)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := q.Where("id IN ?", ids).Delete(&models.Brand{})
	return result.RowsAffected, result.Error
}

// List retrieves a paginated list of brands, newest first
func (r *brandRepository) List(collection assetpath.Collection, offset, limit int) ([]models.Brand, error) {
	q, err := r.table(collection)
	if err != nil {
		return nil, err
	}
	var brands []models.Brand
	err = q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&brands).Error
	return brands, err
}
