package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/logging"
)

// EnsureFunc makes sure a profile row exists for a verified user.
type EnsureFunc func(ctx context.Context, userID, email string) error

// RequireUser validates the bearer token and stores the caller in the gin and request contexts.
func RequireUser(v Verifier, ensure EnsureFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		ctx := c.Request.Context()
		id, err := v.Verify(ctx, token)
		if err != nil {
			logging.FromContext(ctx).Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		if ensure != nil {
			if err := ensure(ctx, id.UserID, id.Email); err != nil {
				logging.FromContext(ctx).Error("ensure profile failed", zap.String("user_id", id.UserID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
				return
			}
		}

		c.Set(CtxUserID, id.UserID)
		c.Set(CtxEmail, id.Email)
		c.Request = c.Request.WithContext(logging.WithUserID(ctx, id.UserID))
		c.Next()
	}
}

// extractToken reads the Bearer token from the Authorization header,
// falling back to the access_token query parameter used by EventSource and WebSocket clients.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return strings.TrimSpace(c.Query("access_token"))
}
