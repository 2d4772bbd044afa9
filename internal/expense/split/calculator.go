package split

import "github.com/shopspring/decimal"

// ComputeEqualSplits divides the total evenly across all participants,
// payer included. Each participant gets round2(total/N) and round2(100/N).
// The sum of the rounded shares may drift from the total by rounding error;
// the remainder is intentionally not redistributed (splitting 100 among 3
// yields 33.33 + 33.33 + 33.33 = 99.99).
func ComputeEqualSplits(totalAmount decimal.Decimal, participantIDs []string) []Split {
	if len(participantIDs) == 0 {
		return []Split{}
	}

	n := decimal.NewFromInt(int64(len(participantIDs)))
	share := round2(totalAmount.Div(n))
	pct := round2(hundred.Div(n))

	splits := make([]Split, len(participantIDs))
	for i, id := range participantIDs {
		p := pct
		splits[i] = Split{
			ParticipantID: id,
			Amount:        share,
			Percentage:    &p,
		}
	}
	return splits
}

// ComputePercentageSplits materializes amounts from percentages:
// amount = round2(total * percentage / 100). A split with no percentage
// gets a zero amount. Percentages are passed through unchanged.
func ComputePercentageSplits(totalAmount decimal.Decimal, splits []Split) []Split {
	out := make([]Split, len(splits))
	for i, s := range splits {
		amount := decimal.Zero
		var pct *decimal.Decimal
		if s.Percentage != nil {
			p := *s.Percentage
			pct = &p
			amount = round2(totalAmount.Mul(p).Div(hundred))
		}
		out[i] = Split{
			ParticipantID: s.ParticipantID,
			Amount:        amount,
			Percentage:    pct,
		}
	}
	return out
}

// ComputeSinglePayment builds the payment set for SINGLE mode: the sole
// payer contributes the full total, no division involved.
func ComputeSinglePayment(totalAmount decimal.Decimal, participantID string) []Payment {
	return []Payment{
		{
			ParticipantID: participantID,
			Amount:        round2(totalAmount),
		},
	}
}

// ComputePercentagePayments mirrors ComputePercentageSplits for payments.
func ComputePercentagePayments(totalAmount decimal.Decimal, payments []Payment) []Payment {
	out := make([]Payment, len(payments))
	for i, p := range payments {
		amount := decimal.Zero
		var pct *decimal.Decimal
		if p.Percentage != nil {
			v := *p.Percentage
			pct = &v
			amount = round2(totalAmount.Mul(v).Div(hundred))
		}
		out[i] = Payment{
			ParticipantID: p.ParticipantID,
			Amount:        amount,
			Percentage:    pct,
		}
	}
	return out
}
