// Package realtime fans database change notifications out to connected clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/realtime/domain"
)

const projectChannelPrefix = "pinmark:project:" // pinmark:project:{project_id}

// ProjectChannel is the Redis channel carrying a project's change events.
func ProjectChannel(projectID string) string {
	return projectChannelPrefix + projectID
}

// Hub publishes and subscribes to change events over Redis Pub/Sub
type Hub struct {
	client *redis.Client
}

func NewHub(client *redis.Client) *Hub {
	return &Hub{client: client}
}

func (h *Hub) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := h.client.Publish(ctx, ProjectChannel(ev.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscription delivers one project's events until closed.
type Subscription struct {
	ps     *redis.PubSub
	events chan domain.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

// Subscribe starts listening on a project's channel. The subscription is confirmed
// before Subscribe returns, so no event published afterwards is missed.
func (h *Hub) Subscribe(ctx context.Context, projectID string) (*Subscription, error) {
	ps := h.client.Subscribe(ctx, ProjectChannel(projectID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to project %s: %w", projectID, err)
	}

	s := &Subscription{ps: ps, events: make(chan domain.ChangeEvent, 16), done: make(chan struct{})}
	go s.pump(ctx)
	return s, nil
}

func (s *Subscription) pump(ctx context.Context) {
	defer close(s.events)
	for msg := range s.ps.Channel() {
		var ev domain.ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logging.FromContext(ctx).Warn("drop malformed change event", zap.String("channel", msg.Channel), zap.Error(err))
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

func (s *Subscription) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.ps.Close()
}
