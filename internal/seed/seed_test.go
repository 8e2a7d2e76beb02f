package seed

import (
	"testing"

	"entangl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Hashtag{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeeder_SocialMeshAndEngagement(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedSocialMesh(10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, 10, userCount)

	// No self-follows and no invalid states.
	var badFollows int64
	db.Model(&models.Follow{}).Where("follower_id = following_id").Count(&badFollows)
	assert.Zero(t, badFollows)

	var otherStates int64
	db.Model(&models.Follow{}).
		Where("status NOT IN ?", []models.FollowState{models.FollowStatePending, models.FollowStateAccepted}).
		Count(&otherStates)
	assert.Zero(t, otherStates)

	posts, err := s.SeedEngagement(users, 30)
	require.NoError(t, err)
	assert.Len(t, posts, 30)

	// Post visibility mirrors author privacy at creation time.
	var mismatched int64
	db.Table("posts").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.is_public = users.is_private").
		Count(&mismatched)
	assert.Zero(t, mismatched)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedSocialMesh(5)
	require.NoError(t, err)
	_, err = s.SeedEngagement(users, 10)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	for _, model := range []any{&models.User{}, &models.Follow{}, &models.Post{}, &models.Like{}, &models.Comment{}} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count, "%T should be empty", model)
	}
}

func TestExtractTags(t *testing.T) {
	tags := extractTags("loving #Golang and #coffee today")
	assert.Equal(t, []string{"golang", "coffee"}, tags)

	assert.Empty(t, extractTags("nothing tagged"))
	assert.Empty(t, extractTags("lone # sign"))
}
