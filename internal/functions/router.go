package functions

import "github.com/gin-gonic/gin"

// Register attaches the function endpoints. The group is expected to be authenticated and rate limited.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/get-upload-url", h.getUploadURL)
	rg.POST("/save-metadata", h.saveMetadata)
	rg.POST("/delete-image", h.deleteImage)
	rg.POST("/delete-folder-images", h.deleteFolderImages)
	rg.POST("/send-notifications", h.sendNotifications)
	rg.POST("/share-notification-email", h.shareNotificationEmail)
	rg.POST("/create-checkout", h.createCheckout)
}
