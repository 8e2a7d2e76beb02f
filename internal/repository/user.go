// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"entangl/internal/cache"
	"entangl/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithCounts(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	SearchCandidates(ctx context.Context, query string, limit int) ([]models.User, error)
	SetPrivacy(ctx context.Context, userID uint, isPrivate bool) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// applyUserCounts adds subqueries computing posts_count, followers_count and
// following_count in a single query. Follower counts only include accepted
// edges; pending requests are invisible in counts.
func applyUserCounts(db *gorm.DB) *gorm.DB {
	return db.Select("users.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.deleted_at IS NULL) as posts_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id AND follows.status = 'accepted') as followers_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id AND follows.status = 'accepted') as following_count")
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithCounts(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := applyUserCounts(readDB(r.db).WithContext(ctx)).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := applyUserCounts(readDB(r.db).WithContext(ctx)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// SearchCandidates returns users whose username or display name contains the
// query, case-insensitively. Ranking happens in the service layer; the
// candidate limit is deliberately wider than the page size so close matches
// are not cut off before scoring.
func (r *userRepository) SearchCandidates(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	if err := applyUserCounts(readDB(r.db).WithContext(ctx)).
		Where("username ILIKE ? OR display_name ILIKE ?", like, like).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// SetPrivacy flips a user's privacy flag and re-snapshots the visibility of
// all their existing posts in one transaction. Either both writes commit or
// neither does; a user must never end up private with public posts.
func (r *userRepository) SetPrivacy(ctx context.Context, userID uint, isPrivate bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_private", isPrivate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", userID)
		}

		return tx.Model(&models.Post{}).
			Where("author_id = ?", userID).
			Update("is_public", !isPrivate).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, userID)
	cache.InvalidatePostsList(ctx)
	return nil
}
