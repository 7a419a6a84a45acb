package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/marks/domain"
)

type createReq struct {
	Shape  string  `json:"shape"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
	Label  string  `json:"label"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	m, err := h.svc.Create(c.Request.Context(), auth.UserID(c), c.Param("id"), domain.Mark{
		Shape:  domain.Shape(req.Shape),
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Color:  req.Color,
		Label:  req.Label,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"mark": m})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"marks": items})
}

type updateReq struct {
	Shape  *domain.Shape `json:"shape"`
	X      *float64      `json:"x"`
	Y      *float64      `json:"y"`
	Width  *float64      `json:"width"`
	Height *float64      `json:"height"`
	Color  *string       `json:"color"`
	Label  *string       `json:"label"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	m, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), domain.Update{
		Shape:  req.Shape,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Color:  req.Color,
		Label:  req.Label,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"mark": m})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{})
}
