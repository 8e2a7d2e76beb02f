// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"entangl/internal/models"
	"entangl/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/follows/request.
// A single endpoint drives all requester-side transitions: no edge creates a
// pending request, a pending edge is cancelled, an accepted edge unfollows.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		FollowingID uint `json:"following_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.FollowingID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("following_id is required"))
	}

	result, err := s.followService.Toggle(ctx, userID, req.FollowingID)
	if err != nil {
		return respondServiceError(c, err)
	}

	switch result.Action {
	case service.FollowActionRequested:
		s.publishUserEvent(req.FollowingID, EventFollowRequestReceived, map[string]interface{}{
			"request_id": result.Request.ID,
			"from_user":  userSummary(result.Request.Follower),
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		s.publishUserEvent(userID, EventFollowRequestSent, map[string]interface{}{
			"request_id": result.Request.ID,
			"to_user":    userSummary(result.Request.Following),
		})
		return c.Status(fiber.StatusCreated).JSON(result)
	case service.FollowActionCancelled:
		s.publishUserEvent(req.FollowingID, EventFollowRequestCancelled, map[string]interface{}{
			"from_user_id": userID,
		})
	case service.FollowActionUnfollowed:
		s.publishUserEvent(req.FollowingID, EventFollowerRemoved, map[string]interface{}{
			"from_user_id": userID,
		})
	}

	return c.JSON(result)
}

// GetPendingFollowRequests handles GET /api/follows/requests
func (s *Server) GetPendingFollowRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	requests, err := s.followService.PendingRequests(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// AcceptFollowRequest handles POST /api/follows/requests/:requestId/accept
func (s *Server) AcceptFollowRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	follow, svcErr := s.followService.Accept(ctx, userID, requestID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	// Notify the requester their follow is now active.
	s.publishUserEvent(follow.FollowerID, EventFollowRequestAccepted, map[string]interface{}{
		"request_id": follow.ID,
		"by_user":    userSummary(follow.Following),
	})
	s.publishUserEvent(userID, EventFollowerAdded, map[string]interface{}{
		"follower": userSummary(follow.Follower),
	})

	return c.JSON(follow)
}

// DeclineFollowRequest handles POST /api/follows/requests/:requestId/decline
func (s *Server) DeclineFollowRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	follow, svcErr := s.followService.Decline(ctx, userID, requestID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	s.publishUserEvent(follow.FollowerID, EventFollowRequestDeclined, map[string]interface{}{
		"request_id": follow.ID,
	})

	return c.JSON(fiber.Map{
		"message": "Follow request declined",
		"status":  models.FollowStatusNone,
	})
}

// GetFollowing handles GET /api/follows/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.followService.Following(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFollowers handles GET /api/follows/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.followService.Followers(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFollowStatus handles GET /api/follows/status/:userId
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, svcErr := s.followService.Status(ctx, userID, targetID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"status": status})
}
