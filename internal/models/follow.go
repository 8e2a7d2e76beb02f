// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// FollowState represents the persisted status of a follow edge.
type FollowState string

const (
	// FollowStatePending indicates an outstanding follow request.
	FollowStatePending FollowState = "pending"
	// FollowStateAccepted indicates an active follow.
	FollowStateAccepted FollowState = "accepted"
)

// Viewer-relative follow status values returned by the API. Clients branch on
// these literals, so they are part of the wire contract.
const (
	FollowStatusNone      = "none"
	FollowStatusPending   = "pending"
	FollowStatusFollowing = "following"
	FollowStatusSelf      = "self"
)

// Follow represents a directed follow edge: the follower wants to see the
// followed user's content. Direction is preserved as written; at most one edge
// exists per ordered pair, enforced by the composite unique index.
type Follow struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	FollowerID  uint        `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uint        `gorm:"not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	Status      FollowState `gorm:"type:varchar(20);default:'pending';index:idx_follows_status" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relationships
	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
