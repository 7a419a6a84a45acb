package domain

import (
	"time"
	"unicode/utf8"
)

const MaxBodyLen = 5000

type Comment struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"image_id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []*Comment `json:"replies,omitempty"`
}

func ValidBody(body string) bool {
	return body != "" && utf8.ValidString(body) && utf8.RuneCountInString(body) <= MaxBodyLen
}

// BuildThreads nests comments under their parents. Input order is kept at every level,
// so a list ordered by creation yields threads ordered by creation. A comment whose
// parent is not in the list is treated as a root.
func BuildThreads(list []Comment) []*Comment {
	byID := make(map[string]*Comment, len(list))
	nodes := make([]*Comment, len(list))
	for i := range list {
		c := list[i]
		c.Replies = nil
		nodes[i] = &c
		byID[c.ID] = &c
	}

	roots := make([]*Comment, 0, len(list))
	for _, c := range nodes {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
