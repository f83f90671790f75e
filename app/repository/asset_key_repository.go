package repository

import (
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// assetKeyRepository implements the AssetKeyRepository interface
type assetKeyRepository struct {
	db *gorm.DB
}

// NewAssetKeyRepository creates a new asset key repository instance
func NewAssetKeyRepository(db *gorm.DB) AssetKeyRepository {
	return &assetKeyRepository{db: db}
}

// KeyInUse reports whether any gallery row, ad banner or brand still points at key
func (r *assetKeyRepository) KeyInUse(key string) (bool, error) {
	for _, kind := range assetpath.Kinds {
		table, err := models.GalleryTable(kind)
		if err != nil {
			return false, err
		}
		found, err := r.exists(table, "main_key = ? OR mobile_key = ?", key, key)
		if err != nil || found {
			return found, err
		}
	}

	found, err := r.exists("ads", "mobile_banner_key = ? OR tablet_banner_key = ?", key, key)
	if err != nil || found {
		return found, err
	}

	for _, c := range []assetpath.Collection{assetpath.CollectionPartners, assetpath.CollectionSponsors} {
		found, err := r.exists(string(c), "image_key = ?", key)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (r *assetKeyRepository) exists(table, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.Table(table).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
