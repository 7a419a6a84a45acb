package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
)

type createReq struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), auth.UserID(c), c.Param("id"), req.ParentID, req.Body)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) list(c *gin.Context) {
	threads, err := h.svc.List(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"comments": threads})
}

type updateReq struct {
	Body string `json:"body"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Body)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"comment": comment})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{})
}
