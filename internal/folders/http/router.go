package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/folders", h.create)
	rg.GET("/projects/:id/folders", h.list)
	rg.PATCH("/folders/:id", h.update)
	rg.DELETE("/folders/:id", h.delete)
	rg.GET("/folders/:id/path", h.path)
}
