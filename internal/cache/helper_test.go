package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	prev := client
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		SetClient(prev)
		mr.Close()
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, UserKey(1), &cachedUser{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedUser{ID: 1, Username: "alice"}, UserTTL))

	var got cachedUser
	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Username)
}

func TestAside_FetchOnMissThenHit(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			*dest = cachedUser{ID: 2, Username: "bob"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "bob", first.Username)

	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, "bob", second.Username)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	withTestRedis(t)

	var dest cachedUser
	wantErr := errors.New("db down")
	err := Aside(context.Background(), UserKey(3), &dest, UserTTL, func() error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestAside_NilClientAlwaysFetches(t *testing.T) {
	prev := client
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	fetches := 0
	var dest cachedUser
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey(4), &dest, time.Minute, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches)
}

func TestInvalidate(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(5), cachedUser{ID: 5}, UserTTL))
	require.NoError(t, SetJSON(ctx, PostsListKey, []uint{1, 2}, PostTTL))

	InvalidateUser(ctx, 5)
	InvalidatePostsList(ctx)

	assert.False(t, mr.Exists(UserKey(5)))
	assert.False(t, mr.Exists(PostsListKey))
}

func TestFollowStatusKeyIsDirectional(t *testing.T) {
	assert.NotEqual(t, FollowStatusKey(1, 2), FollowStatusKey(2, 1))
}
