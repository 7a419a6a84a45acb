package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/logging"
)

const (
	HeaderRequestID = "X-Request-Id"
	CtxRequestID    = "request_id"
)

// RequestID ensures every request has a stable request ID.
// It reuses an incoming X-Request-Id, echoes it back, attaches the logger to the
// request context and writes one access log line when the request completes.
func RequestID(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		c.Set(CtxRequestID, rid)
		ctx := logging.WithRequestID(c.Request.Context(), rid)
		ctx = logging.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := append(logging.ContextFields(c.Request.Context()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
