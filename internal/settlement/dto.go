package settlement

// CreateSettlementRequest represents the request to record a settlement
// payment. The payer is the authenticated user.
type CreateSettlementRequest struct {
	GroupID  int64   `json:"group_id" validate:"required"`
	ToUserID int64   `json:"to_user_id" validate:"required"`
	Amount   string  `json:"amount" validate:"required"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=255"`
}

// SettlementResponse represents a settlement in API responses
type SettlementResponse struct {
	ID           int64   `json:"id"`
	GroupID      int64   `json:"group_id"`
	FromUserID   int64   `json:"from_user_id"`
	FromUsername string  `json:"from_username,omitempty"`
	ToUserID     int64   `json:"to_user_id"`
	ToUsername   string  `json:"to_username,omitempty"`
	Amount       string  `json:"amount"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// TransferResponse is one "who owes whom" instruction in a balance summary
type TransferResponse struct {
	FromUserID   int64  `json:"from_user_id"`
	FromUsername string `json:"from_username,omitempty"`
	ToUserID     int64  `json:"to_user_id"`
	ToUsername   string `json:"to_username,omitempty"`
	Amount       string `json:"amount"`
}

// GroupBalancesResponse is the settlement summary for one group
type GroupBalancesResponse struct {
	GroupID   int64               `json:"group_id"`
	Transfers []*TransferResponse `json:"transfers"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromUserID:   s.FromUserID,
		FromUsername: s.FromUsername,
		ToUserID:     s.ToUserID,
		ToUsername:   s.ToUsername,
		Amount:       s.Amount.StringFixed(2),
		Note:         s.Note,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
