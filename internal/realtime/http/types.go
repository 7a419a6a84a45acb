package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/realtime/domain"
)

const (
	keepAliveInterval = 15 * time.Second
	pingInterval      = 30 * time.Second
	writeWait         = 10 * time.Second
)

// Stream is an open subscription to one project's change events.
type Stream interface {
	Events() <-chan domain.ChangeEvent
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, projectID string) (Stream, error)
}

// Handler serves project change streams over SSE and WebSocket.
type Handler struct {
	roles    access.Roler
	sub      Subscriber
	upgrader websocket.Upgrader

	keepAlive time.Duration
	ping      time.Duration
}

// New builds a handler. checkOrigin decides which browser origins may open a WebSocket.
func New(roles access.Roler, sub Subscriber, checkOrigin func(origin string) bool) *Handler {
	h := &Handler{roles: roles, sub: sub, keepAlive: keepAliveInterval, ping: pingInterval}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if checkOrigin != nil {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || checkOrigin(origin)
		}
	}
	return h
}

// SubscribeFunc adapts a function to Subscriber.
type SubscribeFunc func(ctx context.Context, projectID string) (Stream, error)

func (f SubscribeFunc) Subscribe(ctx context.Context, projectID string) (Stream, error) {
	return f(ctx, projectID)
}
