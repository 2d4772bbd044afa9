package expense

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hamadalm/divvy/internal/expense/split"
	"github.com/hamadalm/divvy/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotCreator           = errors.New("only the expense creator can do this")
	ErrNotCommentAuthor     = errors.New("only the comment author can delete it")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrInvalidSplits        = errors.New("invalid splits")
	ErrInvalidPayments      = errors.New("invalid payments")
)

// DefaultCurrency is used when a request does not name a currency
const DefaultCurrency = "USD"

// Service handles expense business logic. It materializes per-participant
// amounts through the split calculators and re-validates them at the trust
// boundary before anything is persisted.
type Service struct {
	repo          *Repository
	notifications *notification.Service
}

// NewService creates a new expense service
func NewService(repo *Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, notifications: notifications}
}

// participantID converts a user ID to the core's string participant ID
func participantID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// userID converts a core participant ID back to a user ID. The core only
// ever sees IDs this package minted, so a parse failure is a bug.
func userID(participantID string) int64 {
	id, _ := strconv.ParseInt(participantID, 10, 64)
	return id
}

// CreateExpense creates an expense with materialized splits and payments
func (s *Service) CreateExpense(ctx context.Context, creatorID int64, req *CreateExpenseRequest) (*ExpenseDetail, error) {
	splits, payments, splitMode, paymentMode, err := s.materialize(req.Amount, req.SplitMode, req.PaymentMode, req.Splits, req.Payments)
	if err != nil {
		return nil, err
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = DefaultCurrency
	}

	detail, err := s.repo.CreateExpense(ctx, creatorID, req, currency, splitMode, paymentMode, splits, payments)
	if err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, detail, creatorID)

	return detail, nil
}

// notifyParticipants tells each split participant, other than the creator,
// about a new expense. Best-effort; the expense is already committed.
func (s *Service) notifyParticipants(ctx context.Context, detail *ExpenseDetail, creatorID int64) {
	full, err := s.repo.GetExpenseByID(ctx, detail.Expense.ID)
	if err != nil || full == nil {
		return
	}

	for _, sp := range detail.Splits {
		if sp.UserID == creatorID {
			continue
		}
		if _, err := s.notifications.NotifyExpenseAdded(ctx, sp.UserID, full.CreatorUsername, full.Amount, full.CurrencyCode, full.ID); err != nil {
			log.Printf("failed to notify expense added: %v", err)
		}
	}
}

// UpdateExpense fully replaces an expense's fields, splits and payments.
// The previous state is snapshotted into the edit history first, then the
// old splits and payments are deleted and the recomputed sets reinserted.
func (s *Service) UpdateExpense(ctx context.Context, id, editorID int64, req *UpdateExpenseRequest) (*ExpenseDetail, error) {
	existing, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if existing.CreatedBy != editorID {
		return nil, ErrNotCreator
	}

	splits, payments, splitMode, paymentMode, err := s.materialize(req.Amount, req.SplitMode, req.PaymentMode, req.Splits, req.Payments)
	if err != nil {
		return nil, err
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = existing.CurrencyCode
	}

	return s.repo.ReplaceExpense(ctx, existing, editorID, req, currency, splitMode, paymentMode, splits, payments)
}

// materialize turns request inputs into concrete, validated split and
// payment sets
func (s *Service) materialize(
	amount decimal.Decimal,
	splitModeStr, paymentModeStr string,
	splitInputs, paymentInputs []*ParticipantInput,
) ([]split.Split, []split.Payment, split.SplitMode, split.PaymentMode, error) {
	splitMode, err := split.ParseSplitMode(splitModeStr)
	if err != nil {
		return nil, nil, "", "", err
	}
	paymentMode, err := split.ParsePaymentMode(paymentModeStr)
	if err != nil {
		return nil, nil, "", "", err
	}

	if err := checkDuplicates(splitInputs); err != nil {
		return nil, nil, "", "", err
	}
	if err := checkDuplicates(paymentInputs); err != nil {
		return nil, nil, "", "", err
	}

	splits := buildSplits(amount, splitMode, splitInputs)
	if result := split.ValidateSplits(amount, splits, splitMode); !result.IsValid {
		return nil, nil, "", "", fmt.Errorf("%w: %s", ErrInvalidSplits, result.Error)
	}

	payments := buildPayments(amount, paymentMode, paymentInputs)
	if result := split.ValidatePayments(amount, payments, paymentMode); !result.IsValid {
		return nil, nil, "", "", fmt.Errorf("%w: %s", ErrInvalidPayments, result.Error)
	}

	return splits, payments, splitMode, paymentMode, nil
}

func buildSplits(amount decimal.Decimal, mode split.SplitMode, inputs []*ParticipantInput) []split.Split {
	switch mode {
	case split.SplitModeEqual:
		ids := make([]string, len(inputs))
		for i, in := range inputs {
			ids[i] = participantID(in.UserID)
		}
		return split.ComputeEqualSplits(amount, ids)
	case split.SplitModePercentage:
		in := make([]split.Split, len(inputs))
		for i, p := range inputs {
			in[i] = p.toShare()
		}
		return split.ComputePercentageSplits(amount, in)
	default: // CUSTOM: caller-provided amounts are used verbatim
		out := make([]split.Split, len(inputs))
		for i, p := range inputs {
			out[i] = p.toShare()
		}
		return out
	}
}

func buildPayments(amount decimal.Decimal, mode split.PaymentMode, inputs []*ParticipantInput) []split.Payment {
	switch mode {
	case split.PaymentModeSingle:
		if len(inputs) == 0 {
			return nil
		}
		return split.ComputeSinglePayment(amount, participantID(inputs[0].UserID))
	case split.PaymentModePercentage:
		in := make([]split.Payment, len(inputs))
		for i, p := range inputs {
			share := p.toShare()
			in[i] = split.Payment{ParticipantID: share.ParticipantID, Amount: share.Amount, Percentage: share.Percentage}
		}
		return split.ComputePercentagePayments(amount, in)
	default: // CUSTOM
		out := make([]split.Payment, len(inputs))
		for i, p := range inputs {
			share := p.toShare()
			out[i] = split.Payment{ParticipantID: share.ParticipantID, Amount: share.Amount, Percentage: share.Percentage}
		}
		return out
	}
}

// checkDuplicates rejects a participant appearing twice in one set
func checkDuplicates(inputs []*ParticipantInput) error {
	seen := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.UserID] {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, in.UserID)
		}
		seen[in.UserID] = true
	}
	return nil
}

// GetExpenseByID retrieves an expense with its splits and payments
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseDetail, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.GetPaymentsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseDetail{Expense: expense, Splits: splits, Payments: payments}, nil
}

// ListExpensesByGroupID retrieves expenses for a group with pagination
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// DeleteExpense deletes an expense with its splits, payments, comments and
// history; creator only
func (s *Service) DeleteExpense(ctx context.Context, id, callerID int64) error {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.CreatedBy != callerID {
		return ErrNotCreator
	}

	return s.repo.DeleteExpense(ctx, id)
}

// AddComment adds a comment to an expense
func (s *Service) AddComment(ctx context.Context, expenseID, authorID int64, body string) (*Comment, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	comment, err := s.repo.CreateComment(ctx, expenseID, authorID, body)
	if err != nil {
		return nil, err
	}

	if expense.CreatedBy != authorID {
		if full, err := s.repo.GetCommentByID(ctx, comment.ID); err == nil && full != nil {
			if _, err := s.notifications.NotifyCommentAdded(ctx, expense.CreatedBy, full.AuthorUsername, expenseID); err != nil {
				log.Printf("failed to notify comment added: %v", err)
			}
			return full, nil
		}
	}

	return comment, nil
}

// ListComments retrieves the comments on an expense
func (s *Service) ListComments(ctx context.Context, expenseID int64) ([]*Comment, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	return s.repo.ListComments(ctx, expenseID)
}

// DeleteComment removes a comment; author only
func (s *Service) DeleteComment(ctx context.Context, commentID, callerID int64) error {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != callerID {
		return ErrNotCommentAuthor
	}

	return s.repo.DeleteComment(ctx, commentID)
}

// ListRevisions retrieves the edit history of an expense, newest first
func (s *Service) ListRevisions(ctx context.Context, expenseID int64) ([]*Revision, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	return s.repo.ListRevisions(ctx, expenseID)
}
