// Package service implements the application's business logic layer.
package service

import (
	"context"

	"entangl/internal/middleware"
	"entangl/internal/models"
	"entangl/internal/repository"
)

// Follow toggle actions reported to clients so they can update their UI
// without refetching status.
const (
	FollowActionRequested  = "requested"
	FollowActionCancelled  = "cancelled"
	FollowActionUnfollowed = "unfollowed"
)

// FollowToggle describes the outcome of a follow toggle call.
type FollowToggle struct {
	Action  string         `json:"action"`
	Status  string         `json:"status"`
	Request *models.Follow `json:"request,omitempty"`
}

// FollowService provides follow-request and follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Toggle advances or reverses the follow state machine from the requester's
// side. With no edge it creates a pending request; a pending edge is
// cancelled; an accepted edge is an unfollow. Every follow goes through
// pending, regardless of the target's privacy; the target decides.
func (s *FollowService) Toggle(ctx context.Context, userID, targetID uint) (*FollowToggle, error) {
	if userID == targetID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	edge, err := s.followRepo.GetEdge(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if edge == nil {
		follow := &models.Follow{
			FollowerID:  userID,
			FollowingID: targetID,
			Status:      models.FollowStatePending,
		}
		if err := s.followRepo.Create(ctx, follow); err != nil {
			return nil, err
		}
		created, err := s.followRepo.GetByID(ctx, follow.ID)
		if err != nil {
			return nil, err
		}
		middleware.FollowTransitions.WithLabelValues(FollowActionRequested).Inc()
		return &FollowToggle{
			Action:  FollowActionRequested,
			Status:  models.FollowStatusPending,
			Request: created,
		}, nil
	}

	if err := s.followRepo.Delete(ctx, edge.ID); err != nil {
		return nil, err
	}

	action := FollowActionCancelled
	if edge.Status == models.FollowStateAccepted {
		action = FollowActionUnfollowed
	}
	middleware.FollowTransitions.WithLabelValues(action).Inc()
	return &FollowToggle{
		Action: action,
		Status: models.FollowStatusNone,
	}, nil
}

// Accept accepts a pending follow request. Only the target of the request may
// accept it.
func (s *FollowService) Accept(ctx context.Context, userID, requestID uint) (*models.Follow, error) {
	follow, err := s.followRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if follow.FollowingID != userID {
		return nil, models.NewForbiddenError("You can only accept follow requests sent to you")
	}
	if follow.Status != models.FollowStatePending {
		return nil, models.NewInvalidStateError("Follow request is not pending")
	}

	if err := s.followRepo.UpdateStatus(ctx, requestID, models.FollowStateAccepted); err != nil {
		return nil, err
	}

	middleware.FollowTransitions.WithLabelValues("accepted").Inc()
	return s.followRepo.GetByID(ctx, requestID)
}

// Decline declines a pending follow request, removing it entirely so the
// requester may ask again later. Only the target may decline.
func (s *FollowService) Decline(ctx context.Context, userID, requestID uint) (*models.Follow, error) {
	follow, err := s.followRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if follow.FollowingID != userID {
		return nil, models.NewForbiddenError("You can only decline follow requests sent to you")
	}
	if follow.Status != models.FollowStatePending {
		return nil, models.NewInvalidStateError("Follow request is not pending")
	}

	if err := s.followRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	middleware.FollowTransitions.WithLabelValues("declined").Inc()
	return follow, nil
}

// Status returns the viewer-relative follow status toward the target:
// self, none, pending or following.
func (s *FollowService) Status(ctx context.Context, viewerID, targetID uint) (string, error) {
	if viewerID == targetID {
		return models.FollowStatusSelf, nil
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return "", err
	}

	edge, err := s.followRepo.GetEdge(ctx, viewerID, targetID)
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

// PendingRequests returns incoming follow requests awaiting the user's decision.
func (s *FollowService) PendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.ListPending(ctx, userID)
}

// Following returns the users the given user follows with an accepted edge.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}

// Followers returns the user's accepted followers.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}
