package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"entangl/internal/models"
	"entangl/internal/repository"
)

// UserService provides profile and account business logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// UpdateProfileInput carries optional profile fields; nil means unchanged.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Avatar      *string `json:"avatar"`
	IsPrivate   *bool   `json:"is_private"`
}

// GetProfile returns a user with counts and the viewer-relative follow status.
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithCounts(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.FollowStatus, err = s.followStatusFor(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfileByUsername resolves a username to a profile.
func (s *UserService) GetProfileByUsername(ctx context.Context, viewerID uint, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.GetProfile(ctx, viewerID, user.ID)
}

// UpdateProfile applies partial profile updates for the user. A privacy
// change runs through the transactional privacy path so existing posts are
// re-snapshotted atomically with the flag.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if utf8.RuneCountInString(name) > 50 {
			return nil, models.NewValidationError("Display name must be at most 50 characters")
		}
		user.DisplayName = name
		changed = true
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if utf8.RuneCountInString(bio) > 160 {
			return nil, models.NewValidationError("Bio must be at most 160 characters")
		}
		user.Bio = bio
		changed = true
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
		changed = true
	}

	if changed {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if input.IsPrivate != nil && *input.IsPrivate != user.IsPrivate {
		if err := s.userRepo.SetPrivacy(ctx, userID, *input.IsPrivate); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByIDWithCounts(ctx, userID)
}

// SetPrivacy flips the privacy flag and propagates it to the user's posts.
func (s *UserService) SetPrivacy(ctx context.Context, userID uint, isPrivate bool) (*models.User, error) {
	if err := s.userRepo.SetPrivacy(ctx, userID, isPrivate); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDWithCounts(ctx, userID)
}

// ListUsers returns a page of the user directory with viewer-relative follow
// status attached to each entry.
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.annotateFollowStatus(ctx, viewerID, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) followStatusFor(ctx context.Context, viewerID, targetID uint) (string, error) {
	return followStatusFor(ctx, s.followRepo, viewerID, targetID)
}

func (s *UserService) annotateFollowStatus(ctx context.Context, viewerID uint, users []models.User) error {
	return annotateFollowStatus(ctx, s.followRepo, viewerID, users)
}

// followStatusFor resolves the viewer-relative follow status vocabulary:
// self, none, pending or following. Anonymous viewers get no status.
func followStatusFor(ctx context.Context, followRepo repository.FollowRepository, viewerID, targetID uint) (string, error) {
	if viewerID == 0 {
		return "", nil
	}
	if viewerID == targetID {
		return models.FollowStatusSelf, nil
	}
	edge, err := followRepo.GetEdge(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if edge == nil {
		return models.FollowStatusNone, nil
	}
	if edge.Status == models.FollowStateAccepted {
		return models.FollowStatusFollowing, nil
	}
	return models.FollowStatusPending, nil
}

func annotateFollowStatus(ctx context.Context, followRepo repository.FollowRepository, viewerID uint, users []models.User) error {
	if viewerID == 0 {
		return nil
	}
	for i := range users {
		status, err := followStatusFor(ctx, followRepo, viewerID, users[i].ID)
		if err != nil {
			return err
		}
		users[i].FollowStatus = status
	}
	return nil
}
