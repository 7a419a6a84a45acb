package domain

import (
	"time"
	"unicode/utf8"
)

const (
	MaxNameLen        = 120
	MaxDescriptionLen = 2000
)

// Project is a review space owned by one user and optionally shared with collaborators.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Role is the caller's role on the project, filled in per request.
	Role string `json:"role,omitempty"`
}

// Update carries optional changes to a project.
type Update struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// DeleteReport describes what a project deletion removed and what it skipped.
type DeleteReport struct {
	FoldersDeleted int      `json:"folders_deleted"`
	ImagesDeleted  int      `json:"images_deleted"`
	FailedObjects  []string `json:"failed_objects"`
	FailedFolders  []string `json:"failed_folders"`
}

func ValidName(name string) bool {
	return name != "" && utf8.ValidString(name) && utf8.RuneCountInString(name) <= MaxNameLen
}

func ValidDescription(d string) bool {
	return utf8.ValidString(d) && utf8.RuneCountInString(d) <= MaxDescriptionLen
}
