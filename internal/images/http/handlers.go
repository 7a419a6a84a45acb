package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/images/domain"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Query("folder_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"images": items})
}

func (h *Handler) get(c *gin.Context) {
	img, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"image": img})
}

type updateReq struct {
	Name     *string `json:"name"`
	FolderID *string `json:"folder_id"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	img, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), domain.Update{
		Name:     req.Name,
		FolderID: req.FolderID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"image": img})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.DeleteImage(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}
