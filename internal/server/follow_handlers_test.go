package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"entangl/internal/models"
	"entangl/internal/repository"
	"entangl/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newFlowTestServer builds a Server over an in-memory sqlite database with
// the full repository and service stack wired, bypassing auth.
func newFlowTestServer(t *testing.T) (*Server, *gorm.DB) {
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

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		db:          db,
		userRepo:    userRepo,
		followRepo:  followRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.userService = service.NewUserService(userRepo, followRepo)
	s.postService = service.NewPostService(postRepo, userRepo, followRepo)
	s.commentService = service.NewCommentService(commentRepo, s.postService)
	s.searchService = service.NewSearchService(userRepo, followRepo)
	return s, db
}

// newFlowTestApp registers follow and post routes behind a stub auth
// middleware that reads the authenticated user from the X-Test-User header.
func newFlowTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Test-User"); v != "" {
			var uid uint
			if _, err := fmt.Sscanf(v, "%d", &uid); err == nil {
				c.Locals("userID", uid)
			}
		}
		return c.Next()
	})

	app.Post("/api/follows/request", s.ToggleFollow)
	app.Get("/api/follows/requests", s.GetPendingFollowRequests)
	app.Post("/api/follows/requests/:requestId/accept", s.AcceptFollowRequest)
	app.Post("/api/follows/requests/:requestId/decline", s.DeclineFollowRequest)
	app.Get("/api/follows/following", s.GetFollowing)
	app.Get("/api/follows/followers", s.GetFollowers)
	app.Get("/api/follows/status/:userId", s.GetFollowStatus)
	app.Put("/api/users/me", s.UpdateMyProfile)
	app.Get("/api/users/:id/posts", s.GetUserPosts)
	app.Post("/api/posts", s.CreatePost)
	app.Get("/api/posts/feed", s.GetFollowingFeed)
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username string, private bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		IsPrivate: private,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, path string, userID uint, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPendingFollowRequestsNewestFirst(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	target := createTestUser(t, db, "celeste", true)
	first := createTestUser(t, db, "early_bird", false)
	second := createTestUser(t, db, "night_owl", false)

	resp := doJSON(t, app, http.MethodPost, "/api/follows/request", first.ID,
		fiber.Map{"following_id": target.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/api/follows/request", second.ID,
		fiber.Map{"following_id": target.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Push the first request into the past so the ordering is deterministic.
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	resp = doJSON(t, app, http.MethodGet, "/api/follows/requests", target.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var requests []models.Follow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&requests))
	require.Len(t, requests, 2)
	assert.Equal(t, second.ID, requests[0].FollowerID)
	assert.Equal(t, first.ID, requests[1].FollowerID)
}

func TestFollowRequestAcceptFlow(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", true)

	// Alice requests to follow Bob.
	resp := doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "requested", body["action"])
	assert.Equal(t, "pending", body["status"])

	// Status is pending from Alice's side, none from Bob's.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follows/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", decodeBody(t, resp)["status"])

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follows/status/%d", alice.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "none", decodeBody(t, resp)["status"])

	// Bob sees the request in his pending list.
	resp = doJSON(t, app, http.MethodGet, "/api/follows/requests", bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []models.Follow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	_ = resp.Body.Close()
	require.Len(t, pending, 1)
	requestID := pending[0].ID

	// Alice cannot accept her own outgoing request.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/follows/requests/%d/accept", requestID), alice.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// Bob accepts.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/follows/requests/%d/accept", requestID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Accepting again is an invalid state transition.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/follows/requests/%d/accept", requestID), bob.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "INVALID_STATE", body["code"])

	// Alice now follows Bob.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follows/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "following", decodeBody(t, resp)["status"])

	// Bob's followers list contains Alice.
	resp = doJSON(t, app, http.MethodGet, "/api/follows/followers", bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var followers []models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&followers))
	_ = resp.Body.Close()
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	// Toggle again: unfollow.
	resp = doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "unfollowed", body["action"])
	assert.Equal(t, "none", body["status"])
}

func TestFollowRequestDeclineFlow(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", true)

	resp := doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var follow models.Follow
	require.NoError(t, db.Where("follower_id = ?", alice.ID).First(&follow).Error)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/follows/requests/%d/decline", follow.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "none", body["status"])

	// The edge is gone; Alice may request again.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follows/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "none", decodeBody(t, resp)["status"])

	resp = doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestFollowToggleCancelsPending(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	resp := doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "cancelled", body["action"])

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestFollowSelfRejected(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	alice := createTestUser(t, db, "alice", false)

	resp := doJSON(t, app, http.MethodPost, "/api/follows/request", alice.ID,
		fiber.Map{"following_id": alice.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestFollowStatusSelf(t *testing.T) {
	s, db := newFlowTestServer(t)
	app := newFlowTestApp(s)

	alice := createTestUser(t, db, "alice", false)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follows/status/%d", alice.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "self", decodeBody(t, resp)["status"])
}
