// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"entangl/internal/models"
	"entangl/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetProfile(ctx, userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me.
// When is_private is present the privacy flip and the bulk post visibility
// re-snapshot happen in one transaction.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.userService.GetProfile(ctx, userID, targetID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts.
// A private profile viewed without an accepted follow yields an empty list.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, svcErr := s.postService.ListUserPosts(ctx, userID, targetID, p.Limit, p.Offset)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(posts)
}

// SearchUsers handles GET /api/users/search?q=&limit=. The route is public;
// a valid bearer token attaches the viewer-relative follow status to each
// result.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	query := c.Query("q")
	limit := c.QueryInt("limit", 20)

	users, err := s.searchService.SearchUsers(ctx, viewerID, query, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}
