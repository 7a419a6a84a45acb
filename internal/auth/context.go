package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// UserID extracts the authenticated user ID set by RequireUser.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// Email extracts the authenticated user's email, if the token carried one.
func Email(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
