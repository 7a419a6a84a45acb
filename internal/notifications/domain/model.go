package domain

import "time"

type Kind string

const (
	KindMark        Kind = "mark"
	KindComment     Kind = "comment"
	KindShareInvite Kind = "share_invite"
)

// IsActivity reports whether k is a kind that notifies project members.
func (k Kind) IsActivity() bool {
	return k == KindMark || k == KindComment
}

type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Activity describes a change on an image that project members should hear about.
type Activity struct {
	Kind    Kind
	ImageID string
	ActorID string
}

// ActivityContext is what an activity email needs to know about where it happened.
type ActivityContext struct {
	ImageID     string
	ImageName   string
	ProjectID   string
	ProjectName string
	OwnerID     string
}

type Recipient struct {
	UserID   string
	Email    string
	Username string
}

// ShareInvite is the data behind a share invitation email.
type ShareInvite struct {
	ShareID      string
	ProjectID    string
	ProjectName  string
	InviterID    string
	InviterName  string
	InviteeID    string
	InviteeEmail string
}

type LogEntry struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	ProjectID   string    `json:"project_id"`
	ImageID     *string   `json:"image_id"`
	Kind        Kind      `json:"kind"`
	Status      Status    `json:"status"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result counts the outcome per recipient of one notification run.
type Result struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}
