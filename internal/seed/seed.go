// Package seed provides database seeding utilities for development and
// testing. All generated users share the password "password123".
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"entangl/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates all seeded tables. Order matters for FK constraints.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"likes", "comments", "post_hashtags", "posts", "hashtags", "follows", "users"}
	for _, table := range tables {
		if err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates users and a follow graph among them. Roughly a
// quarter of users are private; the graph contains both accepted follows and
// outstanding pending requests so every follow state is represented.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	log.Printf("Creating %d users...", numUsers)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username:    username,
			Email:       fmt.Sprintf("%s@example.com", username),
			Password:    string(hashed),
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(8),
			Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			IsPrivate:   s.rand.Intn(4) == 0,
			Verified:    s.rand.Intn(10) == 0,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, user)
	}

	log.Println("Building follow graph...")
	created := 0
	for _, follower := range users {
		targets := s.rand.Intn(numUsers/2 + 1)
		for j := 0; j < targets; j++ {
			target := users[s.rand.Intn(numUsers)]
			if target.ID == follower.ID {
				continue
			}
			status := models.FollowStateAccepted
			// private targets keep some requests pending
			if target.IsPrivate && s.rand.Intn(3) == 0 {
				status = models.FollowStatePending
			}
			follow := &models.Follow{
				FollowerID:  follower.ID,
				FollowingID: target.ID,
				Status:      status,
			}
			// duplicate pairs hit the unique index; skip them
			if err := s.db.Create(follow).Error; err != nil {
				continue
			}
			created++
		}
	}
	log.Printf("Created %d follow edges", created)

	return users, nil
}

// SeedEngagement creates posts for the given users, with hashtags, likes and
// comments. Post visibility snapshots the author's privacy at creation, the
// same way the API does.
func (s *Seeder) SeedEngagement(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed posts for")
	}
	log.Printf("Creating %d posts...", numPosts)

	topics := []string{"golang", "coffee", "music", "travel", "fitness", "gaming", "art", "food", "books", "photography"}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.rand.Intn(len(users))]
		content := gofakeit.Sentence(10)
		if s.rand.Intn(2) == 0 {
			content = fmt.Sprintf("%s #%s", content, topics[s.rand.Intn(len(topics))])
		}
		if len(content) > models.MaxPostContentLen {
			content = content[:models.MaxPostContentLen]
		}

		post := &models.Post{
			Content:  content,
			AuthorID: author.ID,
			IsPublic: !author.IsPrivate,
		}
		if s.rand.Intn(4) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}

		// realistic created_at spread over the last 90 days
		daysBack := s.rand.Intn(90)
		hoursBack := s.rand.Intn(24)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		if err := s.attachHashtags(post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	log.Println("Creating likes and comments...")
	for _, post := range posts {
		likers := s.rand.Intn(6)
		for j := 0; j < likers; j++ {
			user := users[s.rand.Intn(len(users))]
			like := &models.Like{UserID: user.ID, PostID: post.ID}
			if err := s.db.Create(like).Error; err != nil {
				continue // duplicate like, skip
			}
		}

		commenters := s.rand.Intn(4)
		for j := 0; j < commenters; j++ {
			user := users[s.rand.Intn(len(users))]
			comment := &models.Comment{
				Content: gofakeit.Sentence(6),
				UserID:  user.ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
		}
	}

	return posts, nil
}

func (s *Seeder) attachHashtags(post *models.Post) error {
	for _, name := range extractTags(post.Content) {
		var tag models.Hashtag
		if err := s.db.Where(models.Hashtag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("create hashtag %s: %w", name, err)
		}
		if err := s.db.Model(post).Association("Hashtags").Append(&tag); err != nil {
			return fmt.Errorf("attach hashtag %s: %w", name, err)
		}
	}
	return nil
}

func extractTags(content string) []string {
	var tags []string
	for _, word := range strings.Fields(content) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			tags = append(tags, strings.ToLower(strings.TrimPrefix(word, "#")))
		}
	}
	return tags
}
