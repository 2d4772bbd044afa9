package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeEqualSplits(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []string
		wantAmount   string
		wantPct      string
	}{
		{
			name:         "two way split",
			total:        "100.00",
			participants: []string{"alice", "bob"},
			wantAmount:   "50.00",
			wantPct:      "50.00",
		},
		{
			name:         "three way split rounds down",
			total:        "100.00",
			participants: []string{"alice", "bob", "charlie"},
			wantAmount:   "33.33",
			wantPct:      "33.33",
		},
		{
			name:         "single participant",
			total:        "42.50",
			participants: []string{"alice"},
			wantAmount:   "42.50",
			wantPct:      "100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits := ComputeEqualSplits(dec(tt.total), tt.participants)
			require.Len(t, splits, len(tt.participants))

			for i, s := range splits {
				assert.Equal(t, tt.participants[i], s.ParticipantID)
				assert.True(t, s.Amount.Equal(dec(tt.wantAmount)), "amount = %s", s.Amount)
				require.NotNil(t, s.Percentage)
				assert.True(t, s.Percentage.Equal(dec(tt.wantPct)), "percentage = %s", s.Percentage)
			}
		})
	}
}

func TestComputeEqualSplitsNoParticipants(t *testing.T) {
	splits := ComputeEqualSplits(dec("100.00"), nil)
	assert.Empty(t, splits)
}

// Splitting 100 among 3 yields 33.33 each, 99.99 in total. The missing cent
// is not redistributed; downstream sum checks rely on the 0.01 tolerance.
func TestComputeEqualSplitsRoundingNotCorrected(t *testing.T) {
	splits := ComputeEqualSplits(dec("100.00"), []string{"a", "b", "c"})

	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(dec("99.99")), "sum = %s", sum)
}

func TestComputePercentageSplits(t *testing.T) {
	in := []Split{
		{ParticipantID: "p1", Percentage: decPtr("60")},
		{ParticipantID: "p2", Percentage: decPtr("40")},
	}

	out := ComputePercentageSplits(dec("100.00"), in)
	require.Len(t, out, 2)

	assert.True(t, out[0].Amount.Equal(dec("60.00")), "p1 amount = %s", out[0].Amount)
	assert.True(t, out[1].Amount.Equal(dec("40.00")), "p2 amount = %s", out[1].Amount)
	assert.True(t, out[0].Percentage.Equal(dec("60")))
	assert.True(t, out[1].Percentage.Equal(dec("40")))
}

func TestComputePercentageSplitsMissingPercentage(t *testing.T) {
	in := []Split{{ParticipantID: "p1"}}

	out := ComputePercentageSplits(dec("100.00"), in)
	require.Len(t, out, 1)
	assert.True(t, out[0].Amount.IsZero())
	assert.Nil(t, out[0].Percentage)
}

func TestComputePercentageSplitsRounding(t *testing.T) {
	in := []Split{{ParticipantID: "p1", Percentage: decPtr("33.33")}}

	out := ComputePercentageSplits(dec("10.00"), in)
	require.Len(t, out, 1)
	// 10 * 33.33 / 100 = 3.333, rounded to cents
	assert.True(t, out[0].Amount.Equal(dec("3.33")), "amount = %s", out[0].Amount)
}

func TestComputeSinglePayment(t *testing.T) {
	payments := ComputeSinglePayment(dec("75.50"), "alice")

	require.Len(t, payments, 1)
	assert.Equal(t, "alice", payments[0].ParticipantID)
	assert.True(t, payments[0].Amount.Equal(dec("75.50")))
}

func TestComputePercentagePayments(t *testing.T) {
	in := []Payment{
		{ParticipantID: "p1", Percentage: decPtr("50")},
		{ParticipantID: "p2"},
	}

	out := ComputePercentagePayments(dec("80.00"), in)
	require.Len(t, out, 2)
	assert.True(t, out[0].Amount.Equal(dec("40.00")))
	assert.True(t, out[1].Amount.IsZero())
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("12.34").Equal(dec("12.34")))
	// Malformed input contributes zero instead of failing.
	assert.True(t, ParseAmount("not-a-number").IsZero())
	assert.True(t, ParseAmount("").IsZero())
}

func TestParseSplitMode(t *testing.T) {
	mode, err := ParseSplitMode("PERCENTAGE")
	require.NoError(t, err)
	assert.Equal(t, SplitModePercentage, mode)

	_, err = ParseSplitMode("HALVSIES")
	assert.ErrorIs(t, err, ErrUnknownSplitMode)
}

func TestParsePaymentMode(t *testing.T) {
	mode, err := ParsePaymentMode("SINGLE")
	require.NoError(t, err)
	assert.Equal(t, PaymentModeSingle, mode)

	_, err = ParsePaymentMode("")
	assert.ErrorIs(t, err, ErrUnknownPaymentMode)
}
