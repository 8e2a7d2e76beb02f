// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"entangl/internal/cache"
	"entangl/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListVisible(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListFollowingFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// applyVisibility restricts the query to posts the viewer may see: public
// posts, the viewer's own posts, and private posts from authors the viewer
// follows with an accepted edge. Anonymous viewers (ID 0) only see public
// posts.
func (r *postRepository) applyVisibility(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Where("posts.is_public = ?", true)
	}
	return db.Where(
		"posts.is_public = ? OR posts.author_id = ? OR posts.author_id IN (SELECT following_id FROM follows WHERE follower_id = ? AND status = ?)",
		true, currentUserID, currentUserID, models.FollowStateAccepted,
	)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve hashtags to existing rows so the join table references
		// one canonical row per name.
		for i := range post.Hashtags {
			if err := tx.Where("name = ?", post.Hashtags[i].Name).
				FirstOrCreate(&post.Hashtags[i], models.Hashtag{Name: post.Hashtags[i].Name}).Error; err != nil {
				return err
			}
		}
		return tx.Create(post).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	fetch := func(db *gorm.DB) error {
		return r.applyPostDetails(db, currentUserID).
			Preload("Author").
			Preload("Hashtags").
			First(&post, id).Error
	}

	var err error
	if currentUserID == 0 {
		// Anonymous reads carry no viewer-specific fields and are safe to cache.
		err = cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
			return fetch(readDB(r.db).WithContext(ctx))
		})
	} else {
		err = fetch(readDB(r.db).WithContext(ctx))
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Hashtags").
		Where("posts.author_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// defaultFeedPageSize matches the handlers' default pagination size.
const defaultFeedPageSize = 20

func (r *postRepository) ListVisible(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	fetch := func() error {
		base := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("Author").
			Preload("Hashtags")
		return r.applyVisibility(base, currentUserID).
			Order("posts.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	if currentUserID == 0 && offset == 0 && limit == defaultFeedPageSize {
		// The anonymous first page carries no viewer-specific fields and is
		// the hottest read; post and like writes invalidate it.
		err = cache.Aside(ctx, cache.PostsListKey, &posts, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListFollowingFeed returns posts from accepted follows plus the viewer's own.
func (r *postRepository) ListFollowingFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Hashtags").
		Where(
			"posts.author_id = ? OR posts.author_id IN (SELECT following_id FROM follows WHERE follower_id = ? AND status = ?)",
			currentUserID, currentUserID, models.FollowStateAccepted,
		).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Hashtags").
		Joins("JOIN post_hashtags ph ON ph.post_id = posts.id").
		Joins("JOIN hashtags h ON h.id = ph.hashtag_id").
		Where("h.name = ?", tag)
	if err := r.applyVisibility(base, currentUserID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range post.Hashtags {
			if err := tx.Where("name = ?", post.Hashtags[i].Name).
				FirstOrCreate(&post.Hashtags[i], models.Hashtag{Name: post.Hashtags[i].Name}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(post).Association("Hashtags").Replace(post.Hashtags); err != nil {
			return err
		}
		return tx.Model(post).Updates(map[string]interface{}{
			"content":   post.Content,
			"image_url": post.ImageURL,
			"video_url": post.VideoURL,
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic under concurrent toggles.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record (not soft delete)
	if err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)
	return nil
}
