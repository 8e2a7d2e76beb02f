package service

import (
	"context"

	"entangl/internal/models"
)

type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByIDWithCountsFn func(context.Context, uint) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateFn            func(context.Context, *models.User) error
	deleteFn            func(context.Context, uint) error
	listFn              func(context.Context, int, int) ([]models.User, error)
	searchCandidatesFn  func(context.Context, string, int) ([]models.User, error)
	setPrivacyFn        func(context.Context, uint, bool) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithCounts(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithCountsFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SearchCandidates(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchCandidatesFn(ctx, query, limit)
}
func (s *userRepoStub) SetPrivacy(ctx context.Context, userID uint, isPrivate bool) error {
	return s.setPrivacyFn(ctx, userID, isPrivate)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDWithCountsFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:            func(context.Context, *models.User) error { return nil },
		updateFn:            func(context.Context, *models.User) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
		listFn:              func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchCandidatesFn:  func(context.Context, string, int) ([]models.User, error) { return nil, nil },
		setPrivacyFn:        func(context.Context, uint, bool) error { return nil },
	}
}

type followRepoStub struct {
	createFn        func(context.Context, *models.Follow) error
	getByIDFn       func(context.Context, uint) (*models.Follow, error)
	getEdgeFn       func(context.Context, uint, uint) (*models.Follow, error)
	updateStatusFn  func(context.Context, uint, models.FollowState) error
	deleteFn        func(context.Context, uint) error
	listPendingFn   func(context.Context, uint) ([]models.Follow, error)
	listFollowingFn func(context.Context, uint) ([]models.User, error)
	listFollowersFn func(context.Context, uint) ([]models.User, error)
	followingIDsFn  func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	return s.getByIDFn(ctx, id)
}
func (s *followRepoStub) GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	return s.getEdgeFn(ctx, followerID, followingID)
}
func (s *followRepoStub) UpdateStatus(ctx context.Context, followID uint, status models.FollowState) error {
	return s.updateStatusFn(ctx, followID, status)
}
func (s *followRepoStub) Delete(ctx context.Context, followID uint) error {
	return s.deleteFn(ctx, followID)
}
func (s *followRepoStub) ListPending(ctx context.Context, targetID uint) ([]models.Follow, error) {
	return s.listPendingFn(ctx, targetID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:        func(context.Context, *models.Follow) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Follow, error) { return &models.Follow{ID: id}, nil },
		getEdgeFn:       func(context.Context, uint, uint) (*models.Follow, error) { return nil, nil },
		updateStatusFn:  func(context.Context, uint, models.FollowState) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listPendingFn:   func(context.Context, uint) ([]models.Follow, error) { return nil, nil },
		listFollowingFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		listFollowersFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingIDsFn:  func(context.Context, uint) ([]uint, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn       func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listVisibleFn       func(context.Context, int, int, uint) ([]*models.Post, error)
	listFollowingFeedFn func(context.Context, int, int, uint) ([]*models.Post, error)
	listByHashtagFn     func(context.Context, string, int, int, uint) ([]*models.Post, error)
	updateFn            func(context.Context, *models.Post) error
	deleteFn            func(context.Context, uint) error
	isLikedFn           func(context.Context, uint, uint) (bool, error)
	likeFn              func(context.Context, uint, uint) error
	unlikeFn            func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListVisible(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listVisibleFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListFollowingFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFollowingFeedFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByHashtagFn(ctx, tag, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:            func(context.Context, *models.Post) error { return nil },
		getByIDFn:           func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id, IsPublic: true}, nil },
		getByUserIDFn:       func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		listVisibleFn:       func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		listFollowingFeedFn: func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		listByHashtagFn:     func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		updateFn:            func(context.Context, *models.Post) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
		isLikedFn:           func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:              func(context.Context, uint, uint) error { return nil },
		unlikeFn:            func(context.Context, uint, uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(context.Context, *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(context.Context, uint, int, int) ([]*models.Comment, error) { return nil, nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}
