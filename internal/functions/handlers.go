package functions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
	"github.com/pinmark/pinmark-backend/internal/auth"
	idomain "github.com/pinmark/pinmark-backend/internal/images/domain"
	ndomain "github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

func (h *Handler) getUploadURL(c *gin.Context) {
	var req uploadURLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	ticket, err := h.images.RequestUpload(c.Request.Context(), auth.UserID(c), idomain.UploadRequest{
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  req.FileSize,
		ProjectID: req.ProjectID,
		FolderID:  req.FolderID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{
		"uploadUrl": ticket.UploadURL,
		"key":       ticket.Key,
		"headers":   ticket.Headers,
		"expiresAt": ticket.ExpiresAt,
	})
}

func (h *Handler) saveMetadata(c *gin.Context) {
	var req saveMetadataReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}

	img, err := h.images.SaveMetadata(c.Request.Context(), auth.UserID(c), idomain.SaveRequest{
		Key:       req.Key,
		FileName:  req.FileName,
		FileType:  req.FileType,
		ProjectID: req.ProjectID,
		FolderID:  req.FolderID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"image": toImageDTO(img)})
}

func (h *Handler) deleteImage(c *gin.Context) {
	var req deleteImageReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageID == "" {
		respond.BadRequest(c, "imageId is required")
		return
	}

	if err := h.images.DeleteImage(c.Request.Context(), auth.UserID(c), req.ImageID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) deleteFolderImages(c *gin.Context) {
	var req deleteFolderImagesReq
	if err := c.ShouldBindJSON(&req); err != nil || req.FolderID == "" {
		respond.BadRequest(c, "folderId is required")
		return
	}

	report, err := h.images.DeleteFolderImagesFor(c.Request.Context(), auth.UserID(c), req.FolderID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"deleted": report.Deleted, "failed": report.Failed})
}

func (h *Handler) sendNotifications(c *gin.Context) {
	var req sendNotificationsReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageID == "" {
		respond.BadRequest(c, "imageId and type are required")
		return
	}

	res, err := h.notify.SendActivityFor(c.Request.Context(), auth.UserID(c), req.ImageID, ndomain.Kind(req.Type))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"sent": res.Sent, "skipped": res.Skipped, "failed": res.Failed})
}

func (h *Handler) shareNotificationEmail(c *gin.Context) {
	var req shareEmailReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ShareID == "" {
		respond.BadRequest(c, "shareId is required")
		return
	}

	if err := h.invites.ResendInvite(c.Request.Context(), auth.UserID(c), req.ShareID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) createCheckout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Plan == "" {
		respond.BadRequest(c, "plan is required")
		return
	}

	url, err := h.checkout.CreateCheckout(c.Request.Context(), auth.UserID(c), auth.Email(c), req.Plan)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"url": url})
}
