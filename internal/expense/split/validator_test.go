package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSplitsEqual(t *testing.T) {
	res := ValidateSplits(dec("100.00"), []Split{{ParticipantID: "p1"}}, SplitModeEqual)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Error)
}

func TestValidateSplitsEmpty(t *testing.T) {
	for _, mode := range []SplitMode{SplitModeEqual, SplitModePercentage, SplitModeCustom} {
		res := ValidateSplits(dec("100.00"), nil, mode)
		assert.False(t, res.IsValid, "mode %s", mode)
		assert.Equal(t, "No splits provided", res.Error)
	}
}

func TestValidateSplitsPercentage(t *testing.T) {
	tests := []struct {
		name        string
		percentages []string
		wantValid   bool
		wantError   string
	}{
		{
			name:        "sums to 100",
			percentages: []string{"60", "40"},
			wantValid:   true,
		},
		{
			name:        "short of 100",
			percentages: []string{"60", "30"},
			wantValid:   false,
			wantError:   "Percentages must add up to 100%, currently 90.00%",
		},
		{
			name:        "within tolerance",
			percentages: []string{"50", "50.01"},
			wantValid:   true,
		},
		{
			name:        "just outside tolerance",
			percentages: []string{"50", "50.02"},
			wantValid:   false,
			wantError:   "Percentages must add up to 100%, currently 100.02%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits := make([]Split, len(tt.percentages))
			for i, p := range tt.percentages {
				splits[i] = Split{ParticipantID: string(rune('a' + i)), Percentage: decPtr(p)}
			}

			res := ValidateSplits(dec("100.00"), splits, SplitModePercentage)
			assert.Equal(t, tt.wantValid, res.IsValid)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, res.Error)
			}
		})
	}
}

func TestValidateSplitsCustom(t *testing.T) {
	splits := []Split{
		{ParticipantID: "p1", Amount: dec("80.00")},
		{ParticipantID: "p2", Amount: dec("30.00")},
	}

	res := ValidateSplits(dec("120.00"), splits, SplitModeCustom)
	assert.False(t, res.IsValid)
	assert.Equal(t, "Amounts must add up to 120.00, currently 110.00", res.Error)

	splits[1].Amount = dec("40.00")
	res = ValidateSplits(dec("120.00"), splits, SplitModeCustom)
	assert.True(t, res.IsValid)
}

func TestValidateSplitsCustomTolerance(t *testing.T) {
	// 99.99 against 100.00 is within the shared 0.01 epsilon.
	splits := []Split{
		{ParticipantID: "p1", Amount: dec("33.33")},
		{ParticipantID: "p2", Amount: dec("33.33")},
		{ParticipantID: "p3", Amount: dec("33.33")},
	}

	res := ValidateSplits(dec("100.00"), splits, SplitModeCustom)
	assert.True(t, res.IsValid)
}

func TestValidatePaymentsSingle(t *testing.T) {
	res := ValidatePayments(dec("100.00"), []Payment{
		{ParticipantID: "p1", Amount: dec("80.00")},
	}, PaymentModeSingle)
	assert.False(t, res.IsValid)
	assert.Equal(t, "Single payer must pay the full amount of 100.00", res.Error)

	res = ValidatePayments(dec("100.00"), []Payment{
		{ParticipantID: "p1", Amount: dec("100.00")},
	}, PaymentModeSingle)
	assert.True(t, res.IsValid)
}

func TestValidatePaymentsEmpty(t *testing.T) {
	res := ValidatePayments(dec("100.00"), nil, PaymentModeSingle)
	assert.False(t, res.IsValid)
	assert.Equal(t, "No payments provided", res.Error)
}

func TestValidatePaymentsPercentage(t *testing.T) {
	payments := []Payment{
		{ParticipantID: "p1", Percentage: decPtr("70")},
		{ParticipantID: "p2", Percentage: decPtr("30")},
	}
	res := ValidatePayments(dec("50.00"), payments, PaymentModePercentage)
	assert.True(t, res.IsValid)
}

func TestValidatePaymentsCustom(t *testing.T) {
	payments := []Payment{
		{ParticipantID: "p1", Amount: dec("20.00")},
		{ParticipantID: "p2", Amount: dec("30.00")},
	}
	res := ValidatePayments(dec("50.00"), payments, PaymentModeCustom)
	assert.True(t, res.IsValid)

	res = ValidatePayments(dec("60.00"), payments, PaymentModeCustom)
	assert.False(t, res.IsValid)
	assert.Equal(t, "Amounts must add up to 60.00, currently 50.00", res.Error)
}

// Missing percentages count as zero toward the sum, same as malformed
// amount strings at the parsing boundary.
func TestValidateSplitsPercentageMissingValues(t *testing.T) {
	splits := []Split{
		{ParticipantID: "p1", Percentage: decPtr("60")},
		{ParticipantID: "p2"},
	}

	res := ValidateSplits(dec("100.00"), splits, SplitModePercentage)
	assert.False(t, res.IsValid)
	assert.Equal(t, "Percentages must add up to 100%, currently 60.00%", res.Error)
}
