package group

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// Group represents a group in the system
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupMember represents a user's membership in a group
type GroupMember struct {
	ID       int64      `json:"id"`
	GroupID  int64      `json:"group_id"`
	UserID   int64      `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`

	// Populated from JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Invitation represents an invite code for joining a group. A code is
// single-use and expires after InviteTTL.
type Invitation struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	InviterID int64     `json:"inviter_id"`
	Code      uuid.UUID `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	UsedBy    *int64    `json:"used_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteTTL is how long an invitation code stays usable
const InviteTTL = 7 * 24 * time.Hour

// Expired reports whether the invitation is past its expiry
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Used reports whether the invitation has already been redeemed
func (i *Invitation) Used() bool {
	return i.UsedBy != nil
}
