package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/images", h.list)
	rg.GET("/images/:id", h.get)
	rg.PATCH("/images/:id", h.update)
	rg.DELETE("/images/:id", h.delete)
}
