package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"entangl/internal/models"
	"entangl/internal/repository"
)

// CommentService provides comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	postService *PostService
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postService *PostService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postService: postService,
	}
}

// CreateComment adds a comment to a post the user can see.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Comment content must be at most 280 characters")
	}

	if _, err := s.postService.GetPost(ctx, userID, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns comments on a post the user can see.
func (s *CommentService) ListComments(ctx context.Context, viewerID, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postService.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

// DeleteComment deletes a comment. The comment author may delete their own
// comment; the post author may delete any comment on their post.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		post, err := s.postService.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own comments or comments on your posts")
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
