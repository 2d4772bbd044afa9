package balance

import (
	"github.com/shopspring/decimal"

	"github.com/hamadalm/divvy/internal/expense/split"
)

// Transfer is a directed settlement instruction: From pays To the Amount.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Participants whose net balance lies within ±0.01 of zero count as settled.
var tolerance = decimal.New(1, -2)

// ComputeDebts computes net balances from splits (liabilities) and payments
// (contributions), then greedily matches debtors to creditors to produce a
// transfer list. Participants are processed in first-appearance order, so the
// result is deterministic for a given input.
//
// Greedy matching in fixed order does not minimize the number of transfers;
// that would take a bin-packing approach. It is simple and sufficient for
// small groups, and the order-dependent output is relied upon by callers.
//
// The function is pure: the balance map it mutates during matching is local
// to the call, so concurrent invocations are safe.
func ComputeDebts(splits []split.Split, payments []split.Payment) []Transfer {
	balances := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(splits)+len(payments))

	touch := func(id string) {
		if _, ok := balances[id]; !ok {
			balances[id] = decimal.Zero
			order = append(order, id)
		}
	}

	for _, s := range splits {
		touch(s.ParticipantID)
		balances[s.ParticipantID] = balances[s.ParticipantID].Sub(s.Amount)
	}
	for _, p := range payments {
		touch(p.ParticipantID)
		balances[p.ParticipantID] = balances[p.ParticipantID].Add(p.Amount)
	}

	var debtors, creditors []string
	for _, id := range order {
		b := balances[id]
		switch {
		case b.GreaterThan(tolerance):
			creditors = append(creditors, id)
		case b.LessThan(tolerance.Neg()):
			debtors = append(debtors, id)
		}
	}

	transfers := make([]Transfer, 0)
	for _, debtor := range debtors {
		remaining := balances[debtor].Neg()
		for _, creditor := range creditors {
			if !remaining.GreaterThan(decimal.Zero) {
				break
			}
			credit := balances[creditor]
			if !credit.GreaterThan(decimal.Zero) {
				continue
			}

			settle := decimal.Min(remaining, credit)
			// Later debtors must see the reduced credit.
			balances[creditor] = credit.Sub(settle)
			remaining = remaining.Sub(settle)

			if settle.GreaterThan(tolerance) {
				transfers = append(transfers, Transfer{
					From:   debtor,
					To:     creditor,
					Amount: settle,
				})
			}
		}
	}

	return transfers
}
