package models

import (
	"time"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// Ad is a sponsored banner with two fixed-size slots and a small gallery.
type Ad struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Link            string    `gorm:"type:varchar(500);not null" json:"link"`
	ShortLink       string    `gorm:"type:varchar(255)" json:"short_link,omitempty"`
	ShortID         string    `gorm:"type:varchar(100);index" json:"short_id,omitempty"`
	Clicks          int       `gorm:"default:0" json:"clicks"`
	IsActive        bool      `json:"is_active"`
	MobileBannerKey *string   `gorm:"type:varchar(255)" json:"image_mobile"`
	TabletBannerKey *string   `gorm:"type:varchar(255)" json:"image_tablet"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BannerKey returns the stored key of slot, or "".
func (a *Ad) BannerKey(slot assetpath.BannerSlot) string {
	var key *string
	switch slot {
	case assetpath.BannerMobile:
		key = a.MobileBannerKey
	case assetpath.BannerTablet:
		key = a.TabletBannerKey
	}
	if key == nil {
		return ""
	}
	return *key
}

// SetBannerKey stores key for slot; an empty key clears it.
func (a *Ad) SetBannerKey(slot assetpath.BannerSlot, key string) {
	var v *string
	if key != "" {
		v = &key
	}
	switch slot {
	case assetpath.BannerMobile:
		a.MobileBannerKey = v
	case assetpath.BannerTablet:
		a.TabletBannerKey = v
	}
}

// BannerColumn is the database column holding the key of slot.
func BannerColumn(slot assetpath.BannerSlot) string {
	if slot == assetpath.BannerTablet {
		return "tablet_banner_key"
	}
	return "mobile_banner_key"
}
