package models

import (
	"time"
)

type Hiking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	City          string    `gorm:"type:varchar(100);index" json:"city"`
	NameEn        string    `gorm:"type:varchar(255);not null" json:"name_en"`
	NameFr        string    `gorm:"type:varchar(255);not null" json:"name_fr"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	DescriptionFr string    `gorm:"type:text" json:"description_fr"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
