package split

import (
	"errors"

	"github.com/shopspring/decimal"
)

// SplitMode governs how per-participant owed amounts are derived from a total
type SplitMode string

const (
	SplitModeEqual      SplitMode = "EQUAL"
	SplitModePercentage SplitMode = "PERCENTAGE"
	SplitModeCustom     SplitMode = "CUSTOM"
)

// PaymentMode governs how per-participant paid amounts are derived from a total
type PaymentMode string

const (
	PaymentModeSingle     PaymentMode = "SINGLE"
	PaymentModePercentage PaymentMode = "PERCENTAGE"
	PaymentModeCustom     PaymentMode = "CUSTOM"
)

// Split represents one participant's owed share of an expense total.
// Amount and Percentage are alternative views of the same share; which one
// is authoritative depends on the split mode, but both may be populated
// for display.
type Split struct {
	ParticipantID string           `json:"participant_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Percentage    *decimal.Decimal `json:"percentage,omitempty"`
}

// Payment represents what one participant actually contributed toward an
// expense total. Structurally identical to Split but semantically distinct:
// a Split is a liability, a Payment is a contribution.
type Payment struct {
	ParticipantID string           `json:"participant_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Percentage    *decimal.Decimal `json:"percentage,omitempty"`
}

// ValidationResult is the outcome of a split or payment consistency check.
// Failures are reported through the flag, never as an error value, so call
// sites are forced to handle them explicitly.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

var (
	ErrUnknownSplitMode   = errors.New("unknown split mode")
	ErrUnknownPaymentMode = errors.New("unknown payment mode")
)

// ParseSplitMode converts a string from an API request into a SplitMode
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case SplitModeEqual, SplitModePercentage, SplitModeCustom:
		return SplitMode(s), nil
	default:
		return "", ErrUnknownSplitMode
	}
}

// ParsePaymentMode converts a string from an API request into a PaymentMode
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentModeSingle, PaymentModePercentage, PaymentModeCustom:
		return PaymentMode(s), nil
	default:
		return "", ErrUnknownPaymentMode
	}
}

// tolerance is the shared epsilon for sum checks: 0.01, applied to both
// currency sums and percentage sums. Client-side and server-side validation
// must agree on this value exactly.
var tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a decimal amount string leniently: malformed input
// counts as zero rather than failing the whole validation.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// round2 rounds to two fractional digits (cents)
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
