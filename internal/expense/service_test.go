package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadalm/divvy/internal/expense/split"
)

func strPtr(s string) *string { return &s }

// materialize never touches the repository, so a zero service is enough.
func testService() *Service {
	return NewService(nil, nil)
}

func TestMaterializeEqualSplitSinglePayment(t *testing.T) {
	svc := testService()

	splits, payments, splitMode, paymentMode, err := svc.materialize(
		decimal.RequireFromString("90.00"),
		"EQUAL", "SINGLE",
		[]*ParticipantInput{{UserID: 1}, {UserID: 2}, {UserID: 3}},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.NoError(t, err)

	assert.Equal(t, split.SplitModeEqual, splitMode)
	assert.Equal(t, split.PaymentModeSingle, paymentMode)

	require.Len(t, splits, 3)
	for _, s := range splits {
		assert.Equal(t, "30.00", s.Amount.StringFixed(2))
	}
	assert.Equal(t, "1", splits[0].ParticipantID)
	assert.Equal(t, "3", splits[2].ParticipantID)

	require.Len(t, payments, 1)
	assert.Equal(t, "1", payments[0].ParticipantID)
	assert.Equal(t, "90.00", payments[0].Amount.StringFixed(2))
}

func TestMaterializePercentageSplits(t *testing.T) {
	svc := testService()

	splits, _, _, _, err := svc.materialize(
		decimal.RequireFromString("200.00"),
		"PERCENTAGE", "SINGLE",
		[]*ParticipantInput{
			{UserID: 1, Percentage: strPtr("60")},
			{UserID: 2, Percentage: strPtr("40")},
		},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.NoError(t, err)

	require.Len(t, splits, 2)
	assert.Equal(t, "120.00", splits[0].Amount.StringFixed(2))
	assert.Equal(t, "80.00", splits[1].Amount.StringFixed(2))
}

func TestMaterializeCustomSplitsUsedVerbatim(t *testing.T) {
	svc := testService()

	splits, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"CUSTOM", "SINGLE",
		[]*ParticipantInput{
			{UserID: 1, Amount: "70.00"},
			{UserID: 2, Amount: "30.00"},
		},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.NoError(t, err)

	require.Len(t, splits, 2)
	assert.Equal(t, "70.00", splits[0].Amount.StringFixed(2))
	assert.Equal(t, "30.00", splits[1].Amount.StringFixed(2))
}

func TestMaterializeRejectsBadPercentageSum(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"PERCENTAGE", "SINGLE",
		[]*ParticipantInput{
			{UserID: 1, Percentage: strPtr("50")},
			{UserID: 2, Percentage: strPtr("40")},
		},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSplits)
	assert.Contains(t, err.Error(), "90.00%")
}

func TestMaterializeRejectsBadCustomSum(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"CUSTOM", "SINGLE",
		[]*ParticipantInput{
			{UserID: 1, Amount: "70.00"},
			{UserID: 2, Amount: "50.00"},
		},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSplits)
	assert.Contains(t, err.Error(), "120.00")
}

func TestMaterializeRejectsShortSinglePayment(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"EQUAL", "SINGLE",
		[]*ParticipantInput{{UserID: 1}, {UserID: 2}},
		[]*ParticipantInput{{UserID: 1, Amount: "50.00"}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayments)
}

func TestMaterializeRejectsDuplicateParticipant(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"EQUAL", "SINGLE",
		[]*ParticipantInput{{UserID: 1}, {UserID: 1}},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
}

func TestMaterializeRejectsUnknownModes(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"HALVSIES", "SINGLE",
		[]*ParticipantInput{{UserID: 1}},
		[]*ParticipantInput{{UserID: 1}},
	)
	assert.ErrorIs(t, err, split.ErrUnknownSplitMode)

	_, _, _, _, err = svc.materialize(
		decimal.RequireFromString("100.00"),
		"EQUAL", "VENMO",
		[]*ParticipantInput{{UserID: 1}},
		[]*ParticipantInput{{UserID: 1}},
	)
	assert.ErrorIs(t, err, split.ErrUnknownPaymentMode)
}

func TestMaterializeNoSinglePayerListed(t *testing.T) {
	svc := testService()

	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"EQUAL", "SINGLE",
		[]*ParticipantInput{{UserID: 1}},
		nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayments)
	assert.Contains(t, err.Error(), "No payments provided")
}

func TestMaterializeMalformedAmountParsesAsZero(t *testing.T) {
	svc := testService()

	// A malformed custom amount parses as zero, which then fails the
	// sum check instead of erroring at parse time.
	_, _, _, _, err := svc.materialize(
		decimal.RequireFromString("100.00"),
		"CUSTOM", "SINGLE",
		[]*ParticipantInput{
			{UserID: 1, Amount: "abc"},
			{UserID: 2, Amount: "100.00"},
		},
		[]*ParticipantInput{{UserID: 1}},
	)
	require.NoError(t, err)
}
