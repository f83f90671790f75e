package models

import (
	"time"
)

// Event is a dated happening, optionally held at a Location.
type Event struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	NameEn        string     `gorm:"type:varchar(255);not null" json:"name_en"`
	NameFr        string     `gorm:"type:varchar(255);not null" json:"name_fr"`
	DescriptionEn string     `gorm:"type:text" json:"description_en"`
	DescriptionFr string     `gorm:"type:text" json:"description_fr"`
	LocationID    *uint      `gorm:"index" json:"location_id"`
	Category      string     `gorm:"type:varchar(100);index" json:"category"`
	StartDate     time.Time  `gorm:"index" json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Time          string     `gorm:"type:varchar(5)" json:"time"`
	Price         *float64   `json:"price"`
	Link          string     `gorm:"type:varchar(500)" json:"link"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
