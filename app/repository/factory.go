package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetLocationRepository returns the location repository instance
func (f *Factory) GetLocationRepository() LocationRepository {
	return f.GetRepositories().Location
}

// GetEventRepository returns the event repository instance
func (f *Factory) GetEventRepository() EventRepository {
	return f.GetRepositories().Event
}

// GetHikingRepository returns the hiking repository instance
func (f *Factory) GetHikingRepository() HikingRepository {
	return f.GetRepositories().Hiking
}

// GetAdRepository returns the ad repository instance
func (f *Factory) GetAdRepository() AdRepository {
	return f.GetRepositories().Ad
}

// GetGalleryImageRepository returns the gallery image repository instance
func (f *Factory) GetGalleryImageRepository() GalleryImageRepository {
	return f.GetRepositories().Gallery
}

// GetBrandRepository returns the brand repository instance
func (f *Factory) GetBrandRepository() BrandRepository {
	return f.GetRepositories().Brand
}

// GetAssetKeyRepository returns the asset key repository instance
func (f *Factory) GetAssetKeyRepository() AssetKeyRepository {
	return f.GetRepositories().AssetKey
}

// GetPageRepository returns the page repository instance
func (f *Factory) GetPageRepository() PageRepository {
	return f.GetRepositories().Page
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
