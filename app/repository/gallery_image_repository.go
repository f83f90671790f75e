package repository

import (
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// galleryImageRepository implements the GalleryImageRepository interface
type galleryImageRepository struct {
	db *gorm.DB
}

// NewGalleryImageRepository creates a new gallery image repository instance
func NewGalleryImageRepository(db *gorm.DB) GalleryImageRepository {
	return &galleryImageRepository{db: db}
}

func (r *galleryImageRepository) table(kind assetpath.OwnerKind) (*gorm.DB, error) {
	name, err := models.GalleryTable(kind)
	if err != nil {
		return nil, err
	}
	return r.db.Table(name), nil
}

// Create inserts a gallery row for kind
func (r *galleryImageRepository) Create(kind assetpath.OwnerKind, image *models.GalleryImage) error {
	q, err := r.table(kind)
	if err != nil {
		return err
	}
	return q.Create(image).Error
}

// GetByID retrieves one gallery row
func (r *galleryImageRepository) GetByID(kind assetpath.OwnerKind, id uint) (*models.GalleryImage, error) {
	q, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	var image models.GalleryImage
	if err := q.Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// GetByIDs retrieves the existing gallery rows among ids
func (r *galleryImageRepository) GetByIDs(kind assetpath.OwnerKind, ids []uint) ([]models.GalleryImage, error) {
	q, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	var images []models.GalleryImage
	if len(ids) == 0 {
		return images, nil
	}
	err = q.Where("id IN ?", ids).Order("id").Find(&images).Error
	return images, err
}

// ListByOwner retrieves the gallery of one owner in upload order
func (r *galleryImageRepository) ListByOwner(kind assetpath.OwnerKind, ownerID uint) ([]models.GalleryImage, error) {
	return r.ListByOwners(kind, []uint{ownerID})
}

// ListByOwners retrieves the galleries of several owners
func (r *galleryImageRepository) ListByOwners(kind assetpath.OwnerKind, ownerIDs []uint) ([]models.GalleryImage, error) {
	q, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	var images []models.GalleryImage
	if len(ownerIDs) == 0 {
		return images, nil
	}
	err = q.Where("owner_id IN ?", ownerIDs).Order("owner_id, id").Find(&images).Error
	return images, err
}

// CountByOwner returns the number of gallery rows of one owner
func (r *galleryImageRepository) CountByOwner(kind assetpath.OwnerKind, ownerID uint) (int64, error) {
	q, err := r.table(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// UpdateFile points a gallery row at a newly stored photo
func (r *galleryImageRepository) UpdateFile(kind assetpath.OwnerKind, image *models.GalleryImage) error {
	q, err := r.table(kind)
	if err != nil {
		return err
	}
	return q.Where("id = ?", image.ID).Updates(map[string]interface{}{
		"main_key":     image.MainKey,
		"mobile_key":   image.MobileKey,
		"camera_model": image.CameraModel,
		"taken_at":     image.TakenAt,
		"latitude":     image.Latitude,
		"longitude":    image.Longitude,
	}).Error
}

// DeleteByIDs removes gallery rows in one statement
func (r *galleryImageRepository) DeleteByIDs(kind assetpath.OwnerKind, ids []uint) (int64, error) {
	q, err := r.table(kind)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := q.Where("id IN ?", ids).Delete(&models.GalleryImage{})
	return result.RowsAffected, result.Error
}
