package expense

import (
	"github.com/shopspring/decimal"

	"github.com/hamadalm/divvy/internal/expense/split"
)

// ParticipantInput is one participant's entry in a split or payment set.
// Amount and Percentage arrive as strings from the client; malformed values
// parse as zero rather than rejecting the request.
type ParticipantInput struct {
	UserID     int64   `json:"user_id" validate:"required"`
	Amount     string  `json:"amount,omitempty"`
	Percentage *string `json:"percentage,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       decimal.Decimal     `json:"amount" validate:"required"`
	CurrencyCode string              `json:"currency_code" validate:"omitempty,len=3"`
	SplitMode    string              `json:"split_mode" validate:"required,oneof=EQUAL PERCENTAGE CUSTOM"`
	PaymentMode  string              `json:"payment_mode" validate:"required,oneof=SINGLE PERCENTAGE CUSTOM"`
	Splits       []*ParticipantInput `json:"splits" validate:"required,min=1,dive"`
	Payments     []*ParticipantInput `json:"payments" validate:"required,min=1,dive"`
}

// UpdateExpenseRequest fully replaces an expense's fields, splits and
// payments; the previous state is captured as a revision
type UpdateExpenseRequest struct {
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       decimal.Decimal     `json:"amount" validate:"required"`
	CurrencyCode string              `json:"currency_code" validate:"omitempty,len=3"`
	SplitMode    string              `json:"split_mode" validate:"required,oneof=EQUAL PERCENTAGE CUSTOM"`
	PaymentMode  string              `json:"payment_mode" validate:"required,oneof=SINGLE PERCENTAGE CUSTOM"`
	Splits       []*ParticipantInput `json:"splits" validate:"required,min=1,dive"`
	Payments     []*ParticipantInput `json:"payments" validate:"required,min=1,dive"`
}

// AddCommentRequest represents the request to comment on an expense
type AddCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}

// ShareResponse represents one split or payment row in API responses
type ShareResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username,omitempty"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64            `json:"id"`
	GroupID         int64            `json:"group_id"`
	CreatedBy       int64            `json:"created_by"`
	CreatorUsername string           `json:"creator_username,omitempty"`
	Description     string           `json:"description"`
	Amount          string           `json:"amount"`
	CurrencyCode    string           `json:"currency_code"`
	SplitMode       string           `json:"split_mode"`
	PaymentMode     string           `json:"payment_mode"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
	Splits          []*ShareResponse `json:"splits,omitempty"`
	Payments        []*ShareResponse `json:"payments,omitempty"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID             int64  `json:"id"`
	ExpenseID      int64  `json:"expense_id"`
	AuthorID       int64  `json:"author_id"`
	AuthorUsername string `json:"author_username,omitempty"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}

// RevisionResponse represents an edit-history entry in API responses
type RevisionResponse struct {
	ID             int64  `json:"id"`
	ExpenseID      int64  `json:"expense_id"`
	EditorID       int64  `json:"editor_id"`
	EditorUsername string `json:"editor_username,omitempty"`
	Description    string `json:"description"`
	Amount         string `json:"amount"`
	SplitMode      string `json:"split_mode"`
	PaymentMode    string `json:"payment_mode"`
	EditedAt       string `json:"edited_at"`
}

// toShare converts a ParticipantInput into a core split, parsing amount and
// percentage leniently
func (p *ParticipantInput) toShare() split.Split {
	s := split.Split{
		ParticipantID: participantID(p.UserID),
		Amount:        split.ParseAmount(p.Amount),
	}
	if p.Percentage != nil {
		pct := split.ParseAmount(*p.Percentage)
		s.Percentage = &pct
	}
	return s
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		CreatedBy:       e.CreatedBy,
		CreatorUsername: e.CreatorUsername,
		Description:     e.Description,
		Amount:          e.Amount.StringFixed(2),
		CurrencyCode:    e.CurrencyCode,
		SplitMode:       string(e.SplitMode),
		PaymentMode:     string(e.PaymentMode),
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an ExpenseSplit to a ShareResponse DTO
func (s *ExpenseSplit) ToResponse() *ShareResponse {
	resp := &ShareResponse{
		ID:       s.ID,
		UserID:   s.UserID,
		Username: s.Username,
		Amount:   s.Amount.StringFixed(2),
	}
	if s.Percentage != nil {
		resp.Percentage = s.Percentage.StringFixed(2)
	}
	return resp
}

// ToResponse converts an ExpensePayment to a ShareResponse DTO
func (p *ExpensePayment) ToResponse() *ShareResponse {
	resp := &ShareResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Username: p.Username,
		Amount:   p.Amount.StringFixed(2),
	}
	if p.Percentage != nil {
		resp.Percentage = p.Percentage.StringFixed(2)
	}
	return resp
}

// ToResponse converts a Comment to a CommentResponse DTO
func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:             c.ID,
		ExpenseID:      c.ExpenseID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Body:           c.Body,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Revision to a RevisionResponse DTO
func (r *Revision) ToResponse() *RevisionResponse {
	return &RevisionResponse{
		ID:             r.ID,
		ExpenseID:      r.ExpenseID,
		EditorID:       r.EditorID,
		EditorUsername: r.EditorUsername,
		Description:    r.Description,
		Amount:         r.Amount.StringFixed(2),
		SplitMode:      string(r.SplitMode),
		PaymentMode:    string(r.PaymentMode),
		EditedAt:       r.EditedAt.Format("2006-01-02T15:04:05Z"),
	}
}
