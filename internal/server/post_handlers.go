// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"entangl/internal/models"
	"entangl/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var input service.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts. The route is public; a valid bearer token
// widens the visible set to the viewer's own and followed private posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	p := parsePagination(c, 20)

	posts, err := s.postService.ListFeed(ctx, viewerID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetFollowingFeed handles GET /api/posts/feed
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	posts, err := s.postService.ListFollowingFeed(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.GetPost(ctx, viewerID, postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// GetHashtagPosts handles GET /api/hashtags/:tag/posts
func (s *Server) GetHashtagPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	tag := c.Params("tag")
	p := parsePagination(c, 20)

	posts, err := s.postService.ListByHashtag(ctx, viewerID, tag, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input service.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, svcErr := s.postService.UpdatePost(ctx, userID, postID, input)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.postService.DeletePost(ctx, userID, postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, svcErr := s.postService.ToggleLike(ctx, userID, postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	if liked {
		if post, err := s.postRepo.GetByID(ctx, postID, userID); err == nil && post.AuthorID != userID {
			s.publishUserEvent(post.AuthorID, EventPostLiked, map[string]interface{}{
				"post_id":    postID,
				"by_user_id": userID,
			})
		}
	}

	return c.JSON(fiber.Map{"liked": liked})
}
