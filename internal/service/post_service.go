package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"entangl/internal/middleware"
	"entangl/internal/models"
	"entangl/internal/repository"
)

var hashtagPattern = regexp.MustCompile(`#([A-Za-z0-9_]+)`)

// PostService provides post, feed and like business logic. All reads go
// through the visibility filter: a private author's posts are only shown to
// the author and accepted followers.
type PostService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, followRepo repository.FollowRepository) *PostService {
	return &PostService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

// extractHashtags returns the unique lowercase tags referenced in content.
func extractHashtags(content string) []models.Hashtag {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]models.Hashtag, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, models.Hashtag{Name: name})
	}
	return tags
}

// CreatePost creates a post for the author. IsPublic is snapshotted from the
// author's privacy setting at creation time; later privacy flips rewrite it
// in bulk (see UserRepository.SetPrivacy).
func (s *PostService) CreatePost(ctx context.Context, authorID uint, input CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && input.ImageURL == "" && input.VideoURL == "" {
		return nil, models.NewValidationError("Post must have content, an image, or a video")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Post content must be at most 280 characters")
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content:  content,
		ImageURL: input.ImageURL,
		VideoURL: input.VideoURL,
		IsPublic: !author.IsPrivate,
		AuthorID: authorID,
		Hashtags: extractHashtags(content),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// UpdatePostInput carries the editable post fields.
type UpdatePostInput struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

// UpdatePost edits a post. Only the author may edit it. IsPublic is not
// editable here; it tracks the author's privacy setting.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" && input.ImageURL == "" && input.VideoURL == "" {
		return nil, models.NewValidationError("Post must have content, an image, or a video")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Post content must be at most 280 characters")
	}

	post.Content = content
	post.ImageURL = input.ImageURL
	post.VideoURL = input.VideoURL
	post.Hashtags = extractHashtags(content)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// CanViewPost reports whether the viewer may see the post: public posts,
// own posts, and private posts from accepted follows.
func (s *PostService) CanViewPost(ctx context.Context, viewerID uint, post *models.Post) (bool, error) {
	if post.IsPublic {
		return true, nil
	}
	if viewerID == 0 {
		return false, nil
	}
	if post.AuthorID == viewerID {
		return true, nil
	}
	edge, err := s.followRepo.GetEdge(ctx, viewerID, post.AuthorID)
	if err != nil {
		return false, err
	}
	return edge != nil && edge.Status == models.FollowStateAccepted, nil
}

// GetPost returns a post the viewer may see. An existing but invisible post
// is reported as NotFound so its existence is not leaked.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	visible, err := s.CanViewPost(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// ListFeed returns the general feed of posts the viewer may see.
func (s *PostService) ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	middleware.FeedQueries.WithLabelValues("general").Inc()
	return s.postRepo.ListVisible(ctx, limit, offset, viewerID)
}

// ListFollowingFeed returns posts from accepted follows plus the viewer's own.
func (s *PostService) ListFollowingFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	middleware.FeedQueries.WithLabelValues("following").Inc()
	return s.postRepo.ListFollowingFeed(ctx, limit, offset, viewerID)
}

// ListUserPosts returns a profile's posts. A private profile viewed by
// someone who is not an accepted follower yields an empty list, not an error;
// the profile itself stays visible.
func (s *PostService) ListUserPosts(ctx context.Context, viewerID, profileID uint, limit, offset int) ([]*models.Post, error) {
	profile, err := s.userRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	middleware.FeedQueries.WithLabelValues("profile").Inc()

	if profile.IsPrivate && viewerID != profileID {
		allowed := false
		if viewerID != 0 {
			edge, err := s.followRepo.GetEdge(ctx, viewerID, profileID)
			if err != nil {
				return nil, err
			}
			allowed = edge != nil && edge.Status == models.FollowStateAccepted
		}
		if !allowed {
			return []*models.Post{}, nil
		}
	}

	return s.postRepo.GetByUserID(ctx, profileID, limit, offset, viewerID)
}

// ListByHashtag returns visible posts carrying the given tag.
func (s *PostService) ListByHashtag(ctx context.Context, viewerID uint, tag string, limit, offset int) ([]*models.Post, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, models.NewValidationError("Hashtag is required")
	}
	return s.postRepo.ListByHashtag(ctx, tag, limit, offset, viewerID)
}

// DeletePost deletes a post. Only the author may delete it.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes or unlikes a post and returns the resulting liked state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.GetPost(ctx, userID, postID); err != nil {
		return false, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return false, err
	}
	return true, nil
}
