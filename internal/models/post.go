// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostContentLen is the maximum length of post and comment content.
const MaxPostContentLen = 280

// Post represents a post in the Entangl application.
//
// IsPublic is a snapshot of !author.IsPrivate taken at creation time. It is
// not re-derived on read; flipping a user's privacy bulk-updates their
// existing posts in the same transaction (see UserRepository.SetPrivacy).
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Content  string    `gorm:"type:text" json:"content"`
	ImageURL string    `json:"image_url,omitempty"`
	VideoURL string    `json:"video_url,omitempty"`
	IsPublic bool      `gorm:"not null;default:true;index" json:"is_public"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Hashtags []Hashtag `gorm:"many2many:post_hashtags" json:"hashtags,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Hashtag is a tag attached to posts. Names are stored lowercase without the
// leading '#'.
type Hashtag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"unique;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_hashtags" json:"-"`
}
