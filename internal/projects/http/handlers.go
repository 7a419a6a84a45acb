package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/projects/domain"
)

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), auth.UserID(c), req.Name, req.Description, req.IsPublic)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"project": p})
}

type updateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), domain.Update{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) delete(c *gin.Context) {
	report, err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{"report": report})
}
