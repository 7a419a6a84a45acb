package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLen = 255

type Image struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	FolderID    *string   `json:"folder_id"`
	UploaderID  string    `json:"uploader_id"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"storage_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url,omitempty"`
}

// UploadRequest asks for a pre-signed PUT URL. FolderID is empty for project root.
type UploadRequest struct {
	FileName  string
	FileType  string
	FileSize  int64
	ProjectID string
	FolderID  string
}

// UploadTicket is what the client needs to PUT the object directly into the bucket.
type UploadTicket struct {
	UploadURL string
	Key       string
	Headers   map[string][]string
	ExpiresAt time.Time
}

// SaveRequest records an object the client finished uploading.
type SaveRequest struct {
	Key       string
	FileName  string
	FileType  string
	ProjectID string
	FolderID  string
}

// Update changes an image's name and/or folder. A non-nil empty FolderID moves it to root.
type Update struct {
	Name     *string
	FolderID *string
}

// Removed identifies a row a bulk delete actually dropped.
type Removed struct {
	ID         string
	UploaderID string
	Size       int64
}

// DeleteReport summarises a bulk deletion. Failed lists keys whose objects could not be removed.
type DeleteReport struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

func IsImageType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "image/") && len(ct) > len("image/")
}

func ValidName(name string) bool {
	return name != "" && utf8.ValidString(name) && utf8.RuneCountInString(name) <= MaxNameLen
}
