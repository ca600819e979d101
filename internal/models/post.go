package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a food picture shared with friends. Image bytes live in external
// storage; only the URL is recorded here.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	Caption   string         `gorm:"type:text" json:"caption"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
