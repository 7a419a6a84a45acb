package http

import "github.com/gin-gonic/gin"

// Register attaches profile routes to an authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me", h.updateMe)
	rg.GET("/profiles/search", h.search)
}
