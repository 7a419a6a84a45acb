package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to an authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.PATCH("/projects/:id", h.update)
	rg.DELETE("/projects/:id", h.delete)
}
