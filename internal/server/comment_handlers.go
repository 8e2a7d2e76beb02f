// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"entangl/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.CreateComment(ctx, userID, postID, req.Content)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	if post, err := s.postRepo.GetByID(ctx, postID, userID); err == nil && post.AuthorID != userID {
		s.publishUserEvent(post.AuthorID, EventCommentCreated, map[string]interface{}{
			"post_id":    postID,
			"comment_id": comment.ID,
			"by_user":    userSummary(comment.User),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments. Visibility-gated: comments
// on an invisible post are NotFound, same as the post itself.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, svcErr := s.commentService.ListComments(ctx, viewerID, postID, p.Limit, p.Offset)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if svcErr := s.commentService.DeleteComment(ctx, userID, commentID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
