// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"entangl/internal/cache"
	"entangl/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge data operations.
//
// Edges are directional: GetEdge(a, b) and GetEdge(b, a) are different rows.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetByID(ctx context.Context, id uint) (*models.Follow, error)
	GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error)
	UpdateStatus(ctx context.Context, followID uint, status models.FollowState) error
	Delete(ctx context.Context, followID uint) error
	ListPending(ctx context.Context, targetID uint) ([]models.Follow, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			// A concurrent request already created this edge.
			return models.NewConflictError("Follow request already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowStatus(ctx, follow.FollowerID, follow.FollowingID)
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).Preload("Follower").Preload("Following").First(&follow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Follow request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

// cachedEdge wraps a follow edge for the cache so a confirmed absence is
// cached alongside present edges.
type cachedEdge struct {
	Found bool          `json:"found"`
	Edge  models.Follow `json:"edge"`
}

// GetEdge returns the edge from followerID to followingID, or nil when no
// such edge exists. The reverse edge is never matched. Results (including
// absence) are cached briefly; every edge write invalidates the pair's key.
func (r *followRepository) GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	var ce cachedEdge
	key := cache.FollowStatusKey(followerID, followingID)

	err := cache.Aside(ctx, key, &ce, cache.FollowStatusTTL, func() error {
		var follow models.Follow
		if err := readDB(r.db).WithContext(ctx).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&follow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ce = cachedEdge{}
				return nil
			}
			return err
		}
		ce = cachedEdge{Found: true, Edge: follow}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ce.Found {
		return nil, nil
	}
	return &ce.Edge, nil
}

func (r *followRepository) UpdateStatus(ctx context.Context, followID uint, status models.FollowState) error {
	var follow models.Follow
	if err := r.db.WithContext(ctx).First(&follow, followID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Follow request", followID)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("id = ?", followID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowStatus(ctx, follow.FollowerID, follow.FollowingID)
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followID uint) error {
	var follow models.Follow
	if err := r.db.WithContext(ctx).First(&follow, followID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Follow{}, followID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowStatus(ctx, follow.FollowerID, follow.FollowingID)
	return nil
}

// ListPending returns incoming follow requests awaiting the target's
// decision, newest first.
func (r *followRepository) ListPending(ctx context.Context, targetID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("following_id = ? AND status = ?", targetID, models.FollowStatePending).
		Preload("Follower").
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.following_id").
		Where("f.follower_id = ? AND f.status = ?", userID, models.FollowStateAccepted).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.follower_id").
		Where("f.following_id = ? AND f.status = ?", userID, models.FollowStateAccepted).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FollowingIDs returns the IDs of everyone userID follows with an accepted edge.
func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowStateAccepted).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
