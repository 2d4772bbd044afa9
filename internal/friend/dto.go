package friend

// SendRequestRequest represents the request to send a friend request
type SendRequestRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// FriendshipResponse represents the response for a friendship
type FriendshipResponse struct {
	ID                int64            `json:"id"`
	RequesterID       int64            `json:"requester_id"`
	RequesterUsername string           `json:"requester_username,omitempty"`
	AddresseeID       int64            `json:"addressee_id"`
	AddresseeUsername string           `json:"addressee_username,omitempty"`
	Status            FriendshipStatus `json:"status"`
	CreatedAt         string           `json:"created_at"`
}

// ToResponse converts a Friendship model to a FriendshipResponse DTO
func (f *Friendship) ToResponse() *FriendshipResponse {
	return &FriendshipResponse{
		ID:                f.ID,
		RequesterID:       f.RequesterID,
		RequesterUsername: f.RequesterUsername,
		AddresseeID:       f.AddresseeID,
		AddresseeUsername: f.AddresseeUsername,
		Status:            f.Status,
		CreatedAt:         f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
