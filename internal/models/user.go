// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// LocationSharingMode controls who may see a user's location.
type LocationSharingMode string

const (
	// SharingInvisible hides the location from everyone.
	SharingInvisible LocationSharingMode = "invisible"
	// SharingAllFriends shares the location with every accepted friend.
	SharingAllFriends LocationSharingMode = "all_friends"
	// SharingSelectFriends shares the location only with the explicit
	// allow-list, regardless of friendship status.
	SharingSelectFriends LocationSharingMode = "select_friends"
)

// Location is a geographic point stored as a JSON column.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// User represents a user of the application.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"unique;not null" json:"username"`
	Email           string     `gorm:"unique;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	Bio             string     `json:"bio"`
	Avatar          string     `json:"avatar"`
	PhoneNumber     *string    `gorm:"uniqueIndex" json:"phone_number,omitempty"`
	IsPhoneVerified bool       `gorm:"default:false" json:"is_phone_verified"`
	IsHungry        bool       `gorm:"default:false" json:"is_hungry"`
	LastAte         *time.Time `json:"last_ate,omitempty"`

	Location            *Location           `gorm:"serializer:json" json:"location,omitempty"`
	LocationSharingMode LocationSharingMode `gorm:"type:varchar(20);default:'all_friends'" json:"location_sharing_mode"`
	LastLocationUpdate  *time.Time          `json:"last_location_update,omitempty"`
	SelectedFriends     []*User             `gorm:"many2many:user_selected_friends;joinForeignKey:UserID;joinReferences:SelectedID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// DisplayName returns the user-facing name used in notification texts.
func (u *User) DisplayName() string {
	return u.Username
}

// LocationSnapshot is the visibility-filtered view of a friend's location
// returned by the location endpoints.
type LocationSnapshot struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Location           *Location  `json:"location"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`
	Avatar             string     `json:"avatar,omitempty"`
}
