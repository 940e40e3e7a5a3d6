// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// DefaultProfileImageURL is assigned to users who have not uploaded an avatar.
const DefaultProfileImageURL = "https://cdn.fizikblog.dev/defaults/profile.png"

// User represents a registered account. The password hash is never serialized.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	ProfileImageURL string    `json:"profile_image_url"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
