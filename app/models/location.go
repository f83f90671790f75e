package models

import (
	"time"
)

// Location is a place of interest shown in the app.
type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NameEn       string    `gorm:"type:varchar(255);not null" json:"name_en"`
	NameFr       string    `gorm:"type:varchar(255);not null" json:"name_fr"`
	Category     string    `gorm:"type:varchar(100);index" json:"category"`
	Country      string    `gorm:"type:varchar(2);index" json:"country"`
	City         string    `gorm:"type:varchar(100);index" json:"city"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	StoryEn      string    `gorm:"type:text" json:"story_en"`
	StoryFr      string    `gorm:"type:text" json:"story_fr"`
	OpenFrom     string    `gorm:"type:varchar(5)" json:"open_from"`
	OpenTo       string    `gorm:"type:varchar(5)" json:"open_to"`
	AdmissionFee *float64  `json:"admission_fee"`
	IsActiveAds  bool      `gorm:"default:false" json:"is_active_ads"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
