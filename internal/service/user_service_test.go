package service

import (
	"context"
	"strings"
	"testing"

	"entangl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetProfile_FollowStatus(t *testing.T) {
	users := noopUserRepo()
	users.getByIDWithCountsFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "target", FollowersCount: 3}, nil
	}

	t.Run("self", func(t *testing.T) {
		svc := NewUserService(users, noopFollowRepo())
		user, err := svc.GetProfile(context.Background(), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, models.FollowStatusSelf, user.FollowStatus)
	})

	t.Run("anonymous gets no status", func(t *testing.T) {
		svc := NewUserService(users, noopFollowRepo())
		user, err := svc.GetProfile(context.Background(), 0, 2)
		require.NoError(t, err)
		assert.Empty(t, user.FollowStatus)
	})

	t.Run("pending edge", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
			return &models.Follow{Status: models.FollowStatePending}, nil
		}
		svc := NewUserService(users, follows)
		user, err := svc.GetProfile(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.FollowStatusPending, user.FollowStatus)
	})
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo())

	t.Run("display name too long", func(t *testing.T) {
		name := strings.Repeat("x", 51)
		_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{DisplayName: &name})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
	})

	t.Run("bio too long", func(t *testing.T) {
		bio := strings.Repeat("x", 161)
		_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{Bio: &bio})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
	})
}

func TestUserService_UpdateProfile_PrivacyGoesThroughTransaction(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, IsPrivate: false}, nil
	}
	var setPrivacyCalls int
	var updateCalls int
	users.setPrivacyFn = func(_ context.Context, _ uint, isPrivate bool) error {
		setPrivacyCalls++
		assert.True(t, isPrivate)
		return nil
	}
	users.updateFn = func(context.Context, *models.User) error {
		updateCalls++
		return nil
	}
	svc := NewUserService(users, noopFollowRepo())

	private := true
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{IsPrivate: &private})

	require.NoError(t, err)
	assert.Equal(t, 1, setPrivacyCalls)
	// Privacy is not written through the generic update path.
	assert.Equal(t, 0, updateCalls)
}

func TestUserService_UpdateProfile_UnchangedPrivacySkipsPropagation(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, IsPrivate: true}, nil
	}
	var setPrivacyCalls int
	users.setPrivacyFn = func(context.Context, uint, bool) error {
		setPrivacyCalls++
		return nil
	}
	svc := NewUserService(users, noopFollowRepo())

	private := true
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{IsPrivate: &private})

	require.NoError(t, err)
	assert.Zero(t, setPrivacyCalls)
}

func TestUserService_ListUsers_AnnotatesFollowStatus(t *testing.T) {
	users := noopUserRepo()
	users.listFn = func(context.Context, int, int) ([]models.User, error) {
		return []models.User{{ID: 1}, {ID: 2}, {ID: 3}}, nil
	}
	follows := noopFollowRepo()
	follows.getEdgeFn = func(_ context.Context, _, followingID uint) (*models.Follow, error) {
		if followingID == 2 {
			return &models.Follow{Status: models.FollowStateAccepted}, nil
		}
		return nil, nil
	}
	svc := NewUserService(users, follows)

	got, err := svc.ListUsers(context.Background(), 1, 20, 0)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, models.FollowStatusSelf, got[0].FollowStatus)
	assert.Equal(t, models.FollowStatusFollowing, got[1].FollowStatus)
	assert.Equal(t, models.FollowStatusNone, got[2].FollowStatus)
}

func TestUserService_GetProfileByUsername_Missing(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo())

	_, err := svc.GetProfileByUsername(context.Background(), 1, "ghost")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}
