package repository

import (
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// OwnerRepository defines the database operations shared by every record that
// owns a gallery
type OwnerRepository[T any] interface {
	Create(owner *T) error
	GetByID(id uint) (*T, error)
	GetByIDs(ids []uint) ([]T, error)
	// FindBy returns the first owner whose column equals value.
	FindBy(column string, value interface{}) (*T, error)
	Update(owner *T) error
	UpdateColumns(id uint, values map[string]interface{}) error
	// DeleteWithGallery removes the owners and their gallery rows in one
	// transaction. It returns the number of owners removed and the gallery rows
	// that went with them.
	DeleteWithGallery(ids []uint) (int64, []models.GalleryImage, error)
	List(offset, limit int) ([]T, error)
	Count() (int64, error)
}

type (
	LocationRepository = OwnerRepository[models.Location]
	EventRepository    = OwnerRepository[models.Event]
	HikingRepository   = OwnerRepository[models.Hiking]
	AdRepository       = OwnerRepository[models.Ad]
)

// GalleryImageRepository defines the interface for gallery image rows of all owner kinds
type GalleryImageRepository interface {
	Create(kind assetpath.OwnerKind, image *models.GalleryImage) error
	GetByID(kind assetpath.OwnerKind, id uint) (*models.GalleryImage, error)
	GetByIDs(kind assetpath.OwnerKind, ids []uint) ([]models.GalleryImage, error)
	ListByOwner(kind assetpath.OwnerKind, ownerID uint) ([]models.GalleryImage, error)
	ListByOwners(kind assetpath.OwnerKind, ownerIDs []uint) ([]models.GalleryImage, error)
	CountByOwner(kind assetpath.OwnerKind, ownerID uint) (int64, error)
	// UpdateFile stores the keys and photo metadata of image.
	UpdateFile(kind assetpath.OwnerKind, image *models.GalleryImage) error
	DeleteByIDs(kind assetpath.OwnerKind, ids []uint) (int64, error)
}

// BrandRepository defines the interface for partner and sponsor rows
type BrandRepository interface {
	Create(collection assetpath.Collection, brand *models.Brand) error
	GetByID(collection assetpath.Collection, id uint) (*models.Brand, error)
	GetByIDs(collection assetpath.Collection, ids []uint) ([]models.Brand, error)
	Update(collection assetpath.Collection, brand *models.Brand) error
	UpdateImageKey(collection assetpath.Collection, id uint, key *string) error
	DeleteByIDs(collection assetpath.Collection, ids []uint) (int64, error)
	List(collection assetpath.Collection, offset, limit int) ([]models.Brand, error)
}

// AssetKeyRepository answers questions about stored keys across all tables
type AssetKeyRepository interface {
	KeyInUse(key string) (bool, error)
}

// PageRepository defines the interface for static page operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetActive() ([]models.Page, error)
	Update(page *models.Page) error
	DeleteByIDs(ids []uint) (int64, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Location LocationRepository
	Event    EventRepository
	Hiking   HikingRepository
	Ad       AdRepository
	Gallery  GalleryImageRepository
	Brand    BrandRepository
	AssetKey AssetKeyRepository
	Page     PageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Location: NewOwnerRepository[models.Location](db, models.LocationImage{}.TableName()),
		Event:    NewOwnerRepository[models.Event](db, models.EventImage{}.TableName()),
		Hiking:   NewOwnerRepository[models.Hiking](db, models.HikingImage{}.TableName()),
		Ad:       NewOwnerRepository[models.Ad](db, models.AdImage{}.TableName()),
		Gallery:  NewGalleryImageRepository(db),
		Brand:    NewBrandRepository(db),
		AssetKey: NewAssetKeyRepository(db),
		Page:     NewPageRepository(db),
	}
}
