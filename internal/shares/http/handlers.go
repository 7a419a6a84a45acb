package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
)

type inviteReq struct {
	Username string `json:"username"`
}

func (h *Handler) invite(c *gin.Context) {
	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		respond.BadRequest(c, "username is required")
		return
	}

	sh, err := h.svc.Invite(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"share": sh})
}

func (h *Handler) listForProject(c *gin.Context) {
	items, err := h.svc.ListForProject(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"shares": items})
}

func (h *Handler) listIncoming(c *gin.Context) {
	items, err := h.svc.ListIncoming(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"shares": items})
}

func (h *Handler) accept(c *gin.Context) { h.respondTo(c, true) }

func (h *Handler) reject(c *gin.Context) { h.respondTo(c, false) }

func (h *Handler) respondTo(c *gin.Context, accept bool) {
	sh, err := h.svc.Respond(c.Request.Context(), auth.UserID(c), c.Param("id"), accept)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"share": sh})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{})
}
