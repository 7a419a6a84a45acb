// Package respond writes the {"ok": ...} envelope used by every handler.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/logging"
)

// Error answers with the status mapped from err. Internal errors are logged and hidden.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

// OK merges body into a success envelope.
func OK(c *gin.Context, status int, body gin.H) {
	out := gin.H{"ok": true}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}
