package friend

import "time"

// FriendshipStatus represents the status of a friendship
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "PENDING"
	FriendshipStatusAccepted FriendshipStatus = "ACCEPTED"
)

// Friendship represents a friendship between two users. RequesterID sent
// the request; AddresseeID accepts or ignores it.
type Friendship struct {
	ID          int64            `json:"id"`
	RequesterID int64            `json:"requester_id"`
	AddresseeID int64            `json:"addressee_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`

	// Populated via JOIN
	RequesterUsername string `json:"requester_username,omitempty"`
	AddresseeUsername string `json:"addressee_username,omitempty"`
}
