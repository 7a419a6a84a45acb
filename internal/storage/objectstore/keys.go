package objectstore

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

// RootFolder stands in for the folder segment of images stored at project root.
const RootFolder = "root"

const maxFilenameLen = 100

// Key is a parsed object key: {userId}/{projectId}/{folderId|root}/{uuid}{filename}.
type Key struct {
	UserID    string
	ProjectID string
	FolderID  string
	Name      string
}

func (k Key) String() string {
	folder := k.FolderID
	if folder == "" {
		folder = RootFolder
	}
	return strings.Join([]string{k.UserID, k.ProjectID, folder, k.Name}, "/")
}

// NewKey builds a fresh key for an upload. folderID may be empty.
func NewKey(userID, projectID, folderID, filename string) Key {
	return Key{
		UserID:    userID,
		ProjectID: projectID,
		FolderID:  folderID,
		Name:      uuid.NewString() + SanitizeFilename(filename),
	}
}

// Prefix is the part of every key owned by userID within projectID.
func Prefix(userID, projectID string) string {
	return userID + "/" + projectID + "/"
}

// ParseKey splits a key into its segments.
func ParseKey(key string) (Key, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("malformed object key %q: %w", key, apperr.ErrInvalidInput)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return Key{}, fmt.Errorf("malformed object key %q: %w", key, apperr.ErrInvalidInput)
		}
	}
	k := Key{UserID: parts[0], ProjectID: parts[1], FolderID: parts[2], Name: parts[3]}
	if k.FolderID == RootFolder {
		k.FolderID = ""
	}
	return k, nil
}

// SanitizeFilename keeps the base name, replaces anything outside [A-Za-z0-9._-] with '_'
// and caps the length while keeping the extension.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_')
		if !ok {
			r = '_'
		}
		if r == '_' && lastUnderscore {
			continue
		}
		lastUnderscore = r == '_'
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	if len(out) > maxFilenameLen {
		ext := path.Ext(out)
		if len(ext) > 10 {
			ext = ""
		}
		out = out[:maxFilenameLen-len(ext)] + ext
	}
	return out
}
