package models

import (
	"time"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// Brand is the shared shape of partners and sponsors. Repositories pick the
// table from the collection, so Brand itself is never migrated.
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Link      string    `gorm:"type:varchar(500)" json:"link"`
	ImageKey  *string   `gorm:"type:varchar(255)" json:"image"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Image returns the stored key, or "".
func (b *Brand) Image() string {
	if b.ImageKey == nil {
		return ""
	}
	return *b.ImageKey
}

type Partner struct {
	Brand
}

func (Partner) TableName() string { return string(assetpath.CollectionPartners) }

type Sponsor struct {
	Brand
}

func (Sponsor) TableName() string { return string(assetpath.CollectionSponsors) }
