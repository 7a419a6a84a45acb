package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/events", h.events)
	rg.GET("/projects/:id/ws", h.ws)
}
