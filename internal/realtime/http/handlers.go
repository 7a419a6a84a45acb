package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/logging"
)

// open checks view access and subscribes to the project in the URL.
func (h *Handler) open(c *gin.Context) (Stream, bool) {
	ctx := c.Request.Context()
	projectID := c.Param("id")
	if _, err := access.Require(ctx, h.roles, auth.UserID(c), projectID, access.Role.CanView); err != nil {
		respond.Error(c, err)
		return nil, false
	}

	stream, err := h.sub.Subscribe(ctx, projectID)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	return stream, true
}

// events streams project changes using Server-Sent Events
func (h *Handler) events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respond.Error(c, fmt.Errorf("streaming unsupported"))
		return
	}

	stream, ok := h.open(c)
	if !ok {
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// ws streams project changes as JSON WebSocket frames.
func (h *Handler) ws(c *gin.Context) {
	stream, ok := h.open(c)
	if !ok {
		return
	}
	defer stream.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already answered the client.
		logging.FromContext(c.Request.Context()).Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reading is only needed to notice the client going away and to handle control frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.ping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case ev, ok := <-stream.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
