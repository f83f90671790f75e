package models

import (
	"time"
)

// Page is a static, bilingual CMS page such as "about" or "terms".
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	IsActive  bool      `json:"is_active"`
	TitleEn   string    `gorm:"type:varchar(255);not null" json:"title_en"`
	TitleFr   string    `gorm:"type:varchar(255);not null" json:"title_fr"`
	ContentEn string    `gorm:"type:longtext" json:"content_en"`
	ContentFr string    `gorm:"type:longtext" json:"content_fr"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
