package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/images/:id/comments", h.list)
	rg.POST("/images/:id/comments", h.create)
	rg.PATCH("/comments/:id", h.update)
	rg.DELETE("/comments/:id", h.delete)
}
