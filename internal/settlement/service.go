package settlement

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/hamadalm/divvy/internal/balance"
	"github.com/hamadalm/divvy/internal/expense"
	"github.com/hamadalm/divvy/internal/expense/split"
	"github.com/hamadalm/divvy/internal/notification"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrCannotSettleSelf   = errors.New("cannot settle with yourself")
	ErrInvalidAmount      = errors.New("settlement amount must be positive")
	ErrNotPayer           = errors.New("only the payer can delete a settlement")
)

// ExpenseStore is the slice of the expense repository the settlement
// service needs: all persisted splits and payments for a group.
type ExpenseStore interface {
	GetSplitsByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpenseSplit, error)
	GetPaymentsByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpensePayment, error)
}

// Service handles settlement business logic
type Service struct {
	repo          *Repository
	expenses      ExpenseStore
	notifications *notification.Service
}

// NewService creates a new settlement service
func NewService(repo *Repository, expenses ExpenseStore, notifications *notification.Service) *Service {
	return &Service{repo: repo, expenses: expenses, notifications: notifications}
}

// Create records a settlement payment from the caller to another user
func (s *Service) Create(ctx context.Context, fromUserID int64, req *CreateSettlementRequest) (*Settlement, error) {
	if fromUserID == req.ToUserID {
		return nil, ErrCannotSettleSelf
	}

	amount := split.ParseAmount(req.Amount)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	created, err := s.repo.Create(ctx, req.GroupID, fromUserID, req.ToUserID, amount.Round(2), req.Note)
	if err != nil {
		return nil, err
	}

	// Notifying is best-effort; the settlement is already recorded.
	if full, err := s.repo.GetByID(ctx, created.ID); err == nil && full != nil {
		if _, err := s.notifications.NotifySettlementRecorded(ctx, full.ToUserID, full.FromUsername, full.Amount, full.ID); err != nil {
			log.Printf("failed to notify settlement: %v", err)
		}
		return full, nil
	}

	return created, nil
}

// ListByGroupID retrieves the settlements recorded in a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	return s.repo.ListByGroupID(ctx, groupID)
}

// Delete removes a settlement; only the payer can do it
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if settlement == nil {
		return ErrSettlementNotFound
	}
	if settlement.FromUserID != callerID {
		return ErrNotPayer
	}

	return s.repo.Delete(ctx, id)
}

// GroupBalances feeds every persisted split and payment in the group,
// plus recorded settlements, through the balance engine and returns the
// resulting transfer list.
//
// A settlement of X from A to B enters the engine as a payment by A and a
// split for B: A's net position rises by X, B's falls by X.
func (s *Service) GroupBalances(ctx context.Context, groupID int64) ([]*TransferResponse, error) {
	splitRows, err := s.expenses.GetSplitsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	paymentRows, err := s.expenses.GetPaymentsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	usernames := make(map[string]string)

	coreSplits := make([]split.Split, 0, len(splitRows)+len(settlements))
	for _, row := range splitRows {
		pid := strconv.FormatInt(row.UserID, 10)
		usernames[pid] = row.Username
		coreSplits = append(coreSplits, split.Split{ParticipantID: pid, Amount: row.Amount})
	}

	corePayments := make([]split.Payment, 0, len(paymentRows)+len(settlements))
	for _, row := range paymentRows {
		pid := strconv.FormatInt(row.UserID, 10)
		usernames[pid] = row.Username
		corePayments = append(corePayments, split.Payment{ParticipantID: pid, Amount: row.Amount})
	}

	for _, st := range settlements {
		fromID := strconv.FormatInt(st.FromUserID, 10)
		toID := strconv.FormatInt(st.ToUserID, 10)
		usernames[fromID] = st.FromUsername
		usernames[toID] = st.ToUsername
		corePayments = append(corePayments, split.Payment{ParticipantID: fromID, Amount: st.Amount})
		coreSplits = append(coreSplits, split.Split{ParticipantID: toID, Amount: st.Amount})
	}

	transfers := balance.ComputeDebts(coreSplits, corePayments)

	resp := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		fromID, _ := strconv.ParseInt(t.From, 10, 64)
		toID, _ := strconv.ParseInt(t.To, 10, 64)
		resp[i] = &TransferResponse{
			FromUserID:   fromID,
			FromUsername: usernames[t.From],
			ToUserID:     toID,
			ToUsername:   usernames[t.To],
			Amount:       t.Amount.StringFixed(2),
		}
	}

	return resp, nil
}
