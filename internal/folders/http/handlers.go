package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/folders/domain"
)

type createReq struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	f, err := h.svc.Create(c.Request.Context(), auth.UserID(c), c.Param("id"), req.ParentID, req.Name)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"folder": f})
}

// list returns every folder of the project, or one level when parent_id is given ("root" for the top level).
func (h *Handler) list(c *gin.Context) {
	var parentID *string
	if v, ok := c.GetQuery("parent_id"); ok {
		if v == "root" {
			v = ""
		}
		parentID = &v
	}

	items, err := h.svc.List(c.Request.Context(), auth.UserID(c), c.Param("id"), parentID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"folders": items})
}

type updateReq struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	f, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), domain.Update{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"folder": f})
}

func (h *Handler) path(c *gin.Context) {
	items, err := h.svc.Path(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"path": items})
}

func (h *Handler) delete(c *gin.Context) {
	report, err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"report": report})
}
