package domain

import (
	"time"
	"unicode/utf8"
)

const MaxNameLen = 120

type Folder struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update renames and/or moves a folder. A non-nil empty ParentID moves it to project root.
type Update struct {
	Name     *string
	ParentID *string
}

// DeleteReport describes what a recursive folder deletion removed and what it skipped.
type DeleteReport struct {
	FoldersDeleted int      `json:"folders_deleted"`
	ImagesDeleted  int      `json:"images_deleted"`
	FailedObjects  []string `json:"failed_objects"`
	FailedFolders  []string `json:"failed_folders"`
}

func NewDeleteReport() *DeleteReport {
	return &DeleteReport{FailedObjects: []string{}, FailedFolders: []string{}}
}

// Merge adds other's counts and failures into r.
func (r *DeleteReport) Merge(other *DeleteReport) {
	if other == nil {
		return
	}
	r.FoldersDeleted += other.FoldersDeleted
	r.ImagesDeleted += other.ImagesDeleted
	r.FailedObjects = append(r.FailedObjects, other.FailedObjects...)
	r.FailedFolders = append(r.FailedFolders, other.FailedFolders...)
}

func ValidName(name string) bool {
	return name != "" && utf8.ValidString(name) && utf8.RuneCountInString(name) <= MaxNameLen
}
