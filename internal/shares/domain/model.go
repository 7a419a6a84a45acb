package domain

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Share grants a user collaborator access to a project once accepted.
type Share struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	InviterID   string     `json:"inviter_id"`
	InviteeID   string     `json:"invitee_id"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`

	// Filled in by listings.
	ProjectName     string  `json:"project_name,omitempty"`
	InviteeUsername *string `json:"invitee_username,omitempty"`
}
