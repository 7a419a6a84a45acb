package domain

import (
	"regexp"
	"time"
)

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Profile is the application-side record of an authenticated user.
type Profile struct {
	UserID           string    `json:"user_id"`
	Username         *string   `json:"username,omitempty"`
	Email            string    `json:"email"`
	DisplayName      *string   `json:"display_name,omitempty"`
	StorageUsed      int64     `json:"storage_used"`
	Plan             string    `json:"plan"`
	StripeCustomerID *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Quota is a user's storage usage against their plan limit, in bytes.
type Quota struct {
	Plan  string `json:"plan"`
	Used  int64  `json:"used"`
	Limit int64  `json:"limit"`
}

func (q Quota) Remaining() int64 {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}

// Allows reports whether additional bytes fit under the limit.
func (q Quota) Allows(additional int64) bool {
	return q.Used+additional <= q.Limit
}

// PlanLimits maps plans to storage limits.
type PlanLimits struct {
	FreeBytes int64
	ProBytes  int64
}

func (l PlanLimits) For(plan string) int64 {
	if plan == PlanPro {
		return l.ProBytes
	}
	return l.FreeBytes
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)

func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

func ValidPlan(p string) bool {
	return p == PlanFree || p == PlanPro
}
