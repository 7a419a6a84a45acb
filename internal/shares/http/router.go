package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/shares", h.invite)
	rg.GET("/projects/:id/shares", h.listForProject)
	rg.GET("/shares/incoming", h.listIncoming)
	rg.POST("/shares/:id/accept", h.accept)
	rg.POST("/shares/:id/reject", h.reject)
	rg.DELETE("/shares/:id", h.remove)
}
