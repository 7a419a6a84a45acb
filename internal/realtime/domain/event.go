package domain

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ChangeEvent tells clients which row changed so they can refetch it.
type ChangeEvent struct {
	Table     string `json:"table"`
	Type      string `json:"type"`
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	ImageID   string `json:"image_id,omitempty"`
}

var ErrBadPayload = errors.New("malformed change payload")

// ParsePayload reads a notify_review_change payload. Events without a project are rejected.
func ParsePayload(payload string) (ChangeEvent, error) {
	if !gjson.Valid(payload) {
		return ChangeEvent{}, ErrBadPayload
	}
	r := gjson.GetMany(payload, "table", "type", "id", "project_id", "image_id")
	ev := ChangeEvent{
		Table:     r[0].String(),
		Type:      r[1].String(),
		ID:        r[2].String(),
		ProjectID: r[3].String(),
		ImageID:   r[4].String(),
	}
	if ev.Table == "" || ev.ProjectID == "" {
		return ChangeEvent{}, ErrBadPayload
	}
	return ev, nil
}
