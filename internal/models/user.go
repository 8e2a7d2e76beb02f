// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the Entangl application.
//
// Password holds the bcrypt hash written by the external auth service (or the
// seed tooling); this API never issues credentials itself.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `json:"display_name"`
	Bio         string         `json:"bio"`
	Avatar      string         `json:"avatar"`
	IsPrivate   bool           `gorm:"not null;default:false" json:"is_private"`
	Verified    bool           `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`

	// PostsCount is not persisted; computed at query time
	PostsCount int `gorm:"->" json:"posts_count"`
	// FollowersCount counts accepted followers; computed at query time
	FollowersCount int `gorm:"->" json:"followers_count"`
	// FollowingCount counts accepted follows; computed at query time
	FollowingCount int `gorm:"->" json:"following_count"`
	// FollowStatus is the viewer-relative follow status (none/pending/following/self)
	FollowStatus string `gorm:"-" json:"follow_status,omitempty"`
}
