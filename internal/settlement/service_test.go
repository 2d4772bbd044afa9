package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadalm/divvy/internal/expense"
)

// fakeExpenseStore serves canned split and payment rows
type fakeExpenseStore struct {
	splits   []*expense.ExpenseSplit
	payments []*expense.ExpensePayment
}

func (f *fakeExpenseStore) GetSplitsByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpenseSplit, error) {
	return f.splits, nil
}

func (f *fakeExpenseStore) GetPaymentsByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpensePayment, error) {
	return f.payments, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var settlementColumns = []string{
	"id", "group_id", "from_user_id", "to_user_id", "amount", "note", "created_at", "username", "username",
}

func TestGroupBalances(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Alice (1) paid a 90.00 expense split equally with Bob (2) and
	// Charlie (3). Bob has since settled his 30.00 share directly.
	store := &fakeExpenseStore{
		splits: []*expense.ExpenseSplit{
			{UserID: 1, Amount: dec("30.00"), Username: "alice"},
			{UserID: 2, Amount: dec("30.00"), Username: "bob"},
			{UserID: 3, Amount: dec("30.00"), Username: "charlie"},
		},
		payments: []*expense.ExpensePayment{
			{UserID: 1, Amount: dec("90.00"), Username: "alice"},
		},
	}

	mock.ExpectQuery("SELECT (.+) FROM settlements").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(settlementColumns).
			AddRow(1, 7, 2, 1, "30.00", nil, time.Now(), "bob", "alice"))

	svc := NewService(NewRepository(db), store, nil)

	transfers, err := svc.GroupBalances(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, transfers, 1)
	assert.Equal(t, int64(3), transfers[0].FromUserID)
	assert.Equal(t, "charlie", transfers[0].FromUsername)
	assert.Equal(t, int64(1), transfers[0].ToUserID)
	assert.Equal(t, "alice", transfers[0].ToUsername)
	assert.Equal(t, "30.00", transfers[0].Amount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupBalancesAllSettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &fakeExpenseStore{
		splits: []*expense.ExpenseSplit{
			{UserID: 1, Amount: dec("50.00"), Username: "alice"},
			{UserID: 2, Amount: dec("50.00"), Username: "bob"},
		},
		payments: []*expense.ExpensePayment{
			{UserID: 1, Amount: dec("100.00"), Username: "alice"},
		},
	}

	mock.ExpectQuery("SELECT (.+) FROM settlements").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(settlementColumns).
			AddRow(1, 7, 2, 1, "50.00", nil, time.Now(), "bob", "alice"))

	svc := NewService(NewRepository(db), store, nil)

	transfers, err := svc.GroupBalances(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestCreateRejectsSelfSettlement(t *testing.T) {
	svc := NewService(nil, nil, nil)

	_, err := svc.Create(context.Background(), 1, &CreateSettlementRequest{
		GroupID:  7,
		ToUserID: 1,
		Amount:   "10.00",
	})
	assert.ErrorIs(t, err, ErrCannotSettleSelf)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(nil, nil, nil)

	for _, amount := range []string{"0", "-5.00", "garbage"} {
		_, err := svc.Create(context.Background(), 1, &CreateSettlementRequest{
			GroupID:  7,
			ToUserID: 2,
			Amount:   amount,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", amount)
	}
}
