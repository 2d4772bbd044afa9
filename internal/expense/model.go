package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hamadalm/divvy/internal/expense/split"
)

// Expense represents a shared expense in a group
type Expense struct {
	ID           int64             `json:"id"`
	GroupID      int64             `json:"group_id"`
	CreatedBy    int64             `json:"created_by"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	CurrencyCode string            `json:"currency_code"`
	SplitMode    split.SplitMode   `json:"split_mode"`
	PaymentMode  split.PaymentMode `json:"payment_mode"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Populated via JOIN
	CreatorUsername string `json:"creator_username,omitempty"`
}

// ExpenseSplit is a persisted per-participant liability. Splits carry no
// identity beyond their parent expense: they are fully replaced on every
// update and removed with the expense.
type ExpenseSplit struct {
	ID         int64            `json:"id"`
	ExpenseID  int64            `json:"expense_id"`
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpensePayment is a persisted per-participant contribution. Same lifecycle
// as ExpenseSplit.
type ExpensePayment struct {
	ID         int64            `json:"id"`
	ExpenseID  int64            `json:"expense_id"`
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// Comment is a user comment on an expense
type Comment struct {
	ID        int64     `json:"id"`
	ExpenseID int64     `json:"expense_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	AuthorUsername string `json:"author_username,omitempty"`
}

// Revision is an edit-history snapshot of an expense, taken before each
// update is applied
type Revision struct {
	ID          int64             `json:"id"`
	ExpenseID   int64             `json:"expense_id"`
	EditorID    int64             `json:"editor_id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	SplitMode   split.SplitMode   `json:"split_mode"`
	PaymentMode split.PaymentMode `json:"payment_mode"`
	EditedAt    time.Time         `json:"edited_at"`

	// Populated via JOIN
	EditorUsername string `json:"editor_username,omitempty"`
}

// ExpenseDetail combines an expense with its splits and payments
type ExpenseDetail struct {
	Expense  *Expense
	Splits   []*ExpenseSplit
	Payments []*ExpensePayment
}
