package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/images/:id/marks", h.list)
	rg.POST("/images/:id/marks", h.create)
	rg.PATCH("/marks/:id", h.update)
	rg.DELETE("/marks/:id", h.delete)
}
