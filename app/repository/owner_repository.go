package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fielmedina/backend/app/models"
)

// ownerRepository implements OwnerRepository for one owner table
type ownerRepository[T any] struct {
	db           *gorm.DB
	galleryTable string
}

// NewOwnerRepository creates a repository for T whose gallery rows live in galleryTable
func NewOwnerRepository[T any](db *gorm.DB, galleryTable string) OwnerRepository[T] {
	return &ownerRepository[T]{db: db, galleryTable: galleryTable}
}

// Create inserts a new owner
func (r *ownerRepository[T]) Create(owner *T) error {
	return r.db.Create(owner).Error
}

// GetByID retrieves an owner by its ID
func (r *ownerRepository[T]) GetByID(id uint) (*T, error) {
	var owner T
	if err := r.db.First(&owner, id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// GetByIDs retrieves the existing owners among ids, ordered by ID
func (r *ownerRepository[T]) GetByIDs(ids []uint) ([]T, error) {
	var owners []T
	if len(ids) == 0 {
		return owners, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id").Find(&owners).Error
	return owners, err
}

// FindBy retrieves the first owner whose column equals value
func (r *ownerRepository[T]) FindBy(column string, value interface{}) (*T, error) {
	var owner T
	if err := r.db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// Update saves all fields of owner
func (r *ownerRepository[T]) Update(owner *T) error {
	return r.db.Save(owner).Error
}

// UpdateColumns updates the given columns of one owner
func (r *ownerRepository[T]) UpdateColumns(id uint, values map[string]interface{}) error {
	return r.db.Model(new(T)).Where("id = ?", id).Updates(values).Error
}

// DeleteWithGallery removes the owners and their gallery rows
func (r *ownerRepository[T]) DeleteWithGallery(ids []uint) (int64, []models.GalleryImage, error) {
	var images []models.GalleryImage
	if len(ids) == 0 {
		return 0, images, nil
	}
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if r.galleryTable != "" {
			if err := tx.Table(r.galleryTable).Where("owner_id IN ?", ids).Order("owner_id, id").Find(&images).Error; err != nil {
				return err
			}
			if err := tx.Table(r.galleryTable).Where("owner_id IN ?", ids).Delete(&models.GalleryImage{}).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id IN ?", ids).Delete(new(T))
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return deleted, images, nil
}

// List retrieves a paginated list of owners, newest first
func (r *ownerRepository[T]) List(offset, limit int) ([]T, error) {
	var owners []T
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&owners).Error
	return owners, err
}

// Count returns the total number of owners
func (r *ownerRepository[T]) Count() (int64, error) {
	var count int64
	err := r.db.Model(new(T)).Count(&count).Error
	return count, err
}
