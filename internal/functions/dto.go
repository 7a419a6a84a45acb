package functions

import (
	"time"

	idomain "github.com/pinmark/pinmark-backend/internal/images/domain"
)

type uploadURLReq struct {
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
	ProjectID string `json:"projectId"`
	FolderID  string `json:"folderId"`
}

type saveMetadataReq struct {
	Key       string `json:"key"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	ProjectID string `json:"projectId"`
	FolderID  string `json:"folderId"`
}

type deleteImageReq struct {
	ImageID string `json:"imageId"`
}

type deleteFolderImagesReq struct {
	FolderID string `json:"folderId"`
}

type sendNotificationsReq struct {
	ImageID string `json:"imageId"`
	Type    string `json:"type"`
}

type shareEmailReq struct {
	ShareID string `json:"shareId"`
}

type checkoutReq struct {
	Plan string `json:"plan"`
}

type imageDTO struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	FolderID    *string   `json:"folderId"`
	UploaderID  string    `json:"uploaderId"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"storageKey"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toImageDTO(img *idomain.Image) imageDTO {
	return imageDTO{
		ID:          img.ID,
		ProjectID:   img.ProjectID,
		FolderID:    img.FolderID,
		UploaderID:  img.UploaderID,
		Name:        img.Name,
		StorageKey:  img.StorageKey,
		Size:        img.Size,
		ContentType: img.ContentType,
		URL:         img.URL,
		CreatedAt:   img.CreatedAt,
	}
}
