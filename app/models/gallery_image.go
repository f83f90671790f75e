package models

import (
	"fmt"
	"time"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
)

// GalleryImage is one stored gallery photo of an owner. Every owner kind has
// its own table with this layout; see GalleryTable.
type GalleryImage struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"index;not null" json:"owner_id"`
	MainKey     string     `gorm:"type:varchar(255);not null" json:"image"`
	MobileKey   *string    `gorm:"type:varchar(255)" json:"image_mobile"`
	CameraModel string     `gorm:"type:varchar(255)" json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Keys maps derivative name to storage key.
func (g *GalleryImage) Keys() map[string]string {
	keys := map[string]string{imageprocessor.DerivativeMain: g.MainKey}
	if g.MobileKey != nil {
		keys[imageprocessor.DerivativeMobile] = *g.MobileKey
	}
	return keys
}

type LocationImage struct {
	GalleryImage
}

func (LocationImage) TableName() string { return "location_images" }

type EventImage struct {
	GalleryImage
}

func (EventImage) TableName() string { return "event_images" }

type HikingImage struct {
	GalleryImage
}

func (HikingImage) TableName() string { return "hiking_images" }

type AdImage struct {
	GalleryImage
}

func (AdImage) TableName() string { return "ad_images" }

// GalleryTable returns the gallery table of an owner kind.
func GalleryTable(kind assetpath.OwnerKind) (string, error) {
	switch kind {
	case assetpath.KindLocation:
		return LocationImage{}.TableName(), nil
	case assetpath.KindEvent:
		return EventImage{}.TableName(), nil
	case assetpath.KindHiking:
		return HikingImage{}.TableName(), nil
	case assetpath.KindAd:
		return AdImage{}.TableName(), nil
	default:
		return "", fmt.Errorf("no gallery table for owner kind %q", kind)
	}
}
