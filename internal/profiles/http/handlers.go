package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
)

func (h *Handler) me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	p, err := h.svc.Get(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	q, err := h.svc.Quota(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{"profile": p, "quota": q})
}

type updateMeReq struct {
	Username string `json:"username"`
}

func (h *Handler) updateMe(c *gin.Context) {
	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	p, err := h.svc.UpdateUsername(c.Request.Context(), auth.UserID(c), req.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) search(c *gin.Context) {
	found, err := h.svc.SearchByUsername(c.Request.Context(), c.Query("q"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := make([]publicProfile, 0, len(found))
	for _, p := range found {
		out = append(out, publicProfile{UserID: p.UserID, Username: p.Username, DisplayName: p.DisplayName})
	}
	respond.OK(c, http.StatusOK, gin.H{"profiles": out})
}
