package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = 2 * time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(10))
	assert.False(t, hub.IsOnline(11))

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(10))

	// Unregistering twice is harmless.
	hub.UnregisterClient(client)
	assert.Zero(t, hub.totalConns)
}

func TestHub_PerUserConnectionCap(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastReachesUserClientsOnly(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, "hello")

	select {
	case msg := <-a.Send:
		assert.Equal(t, "hello", string(msg))
	default:
		t.Fatal("expected message for user 1")
	}
	select {
	case <-b.Send:
		t.Fatal("user 2 should not receive user 1's message")
	default:
	}
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()

	a, _ := hub.Register(1, nil)
	b, _ := hub.Register(2, nil)

	hub.BroadcastAll("everyone")

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "everyone", string(msg))
		default:
			t.Fatalf("client for user %d missed broadcast", c.UserID)
		}
	}
}

func TestHub_WiringDeliversRedisMessages(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	notifier := NewNotifier(rdb)

	client, err := hub.Register(9, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	assert.Eventually(t, func() bool {
		_ = notifier.PublishUser(ctx, 9, `{"type":"follower_added"}`)
		select {
		case msg := <-client.Send:
			return string(msg) == `{"type":"follower_added"}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}
