package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/realtime/domain"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub(setupTestRedis(t))
	ctx := context.Background()

	sub, err := hub.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, hub.Publish(ctx, domain.ChangeEvent{Table: "images", Type: "INSERT", ID: "i9", ProjectID: "p2"}))
	want := domain.ChangeEvent{Table: "image_comments", Type: "INSERT", ID: "c1", ProjectID: "p1", ImageID: "i1"}
	require.NoError(t, hub.Publish(ctx, want))

	select {
	case got := <-sub.Events():
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestHub_CloseEndsEvents(t *testing.T) {
	hub := NewHub(setupTestRedis(t))

	sub, err := hub.Subscribe(context.Background(), "p1")
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestProjectChannel(t *testing.T) {
	assert.Equal(t, "pinmark:project:abc", ProjectChannel("abc"))
}
