package balance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadalm/divvy/internal/expense/split"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeDebtsSimplePair(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("50.00")},
		{ParticipantID: "bob", Amount: dec("50.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("100.00")},
	}

	transfers := ComputeDebts(splits, payments)

	require.Len(t, transfers, 1)
	assert.Equal(t, "bob", transfers[0].From)
	assert.Equal(t, "alice", transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(dec("50.00")), "amount = %s", transfers[0].Amount)
}

func TestComputeDebtsAllSettled(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("30.00")},
		{ParticipantID: "bob", Amount: dec("30.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("30.00")},
		{ParticipantID: "bob", Amount: dec("30.00")},
	}

	transfers := ComputeDebts(splits, payments)
	assert.Empty(t, transfers)
}

func TestComputeDebtsEmptyInput(t *testing.T) {
	assert.Empty(t, ComputeDebts(nil, nil))
}

func TestComputeDebtsFanIn(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("25.00")},
		{ParticipantID: "bob", Amount: dec("25.00")},
		{ParticipantID: "charlie", Amount: dec("25.00")},
		{ParticipantID: "dave", Amount: dec("25.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("50.00")},
		{ParticipantID: "bob", Amount: dec("50.00")},
	}

	transfers := ComputeDebts(splits, payments)

	// Greedy order: charlie settles against alice first, exhausting her
	// credit, then dave settles against bob.
	require.Len(t, transfers, 2)
	assert.Equal(t, "charlie", transfers[0].From)
	assert.Equal(t, "alice", transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(dec("25.00")))
	assert.Equal(t, "dave", transfers[1].From)
	assert.Equal(t, "bob", transfers[1].To)
	assert.True(t, transfers[1].Amount.Equal(dec("25.00")))
}

func TestComputeDebtsOneDebtorManyCreditors(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "dave", Amount: dec("90.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("40.00")},
		{ParticipantID: "bob", Amount: dec("50.00")},
	}

	transfers := ComputeDebts(splits, payments)

	require.Len(t, transfers, 2)
	assert.Equal(t, "dave", transfers[0].From)
	assert.Equal(t, "alice", transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(dec("40.00")))
	assert.Equal(t, "dave", transfers[1].From)
	assert.Equal(t, "bob", transfers[1].To)
	assert.True(t, transfers[1].Amount.Equal(dec("50.00")))
}

func TestComputeDebtsWithinToleranceExcluded(t *testing.T) {
	// A cent of drift from equal-split rounding is treated as settled.
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("33.33")},
		{ParticipantID: "bob", Amount: dec("33.33")},
		{ParticipantID: "charlie", Amount: dec("33.33")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("99.99")},
	}

	transfers := ComputeDebts(splits, payments)

	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, "alice", tr.To)
		assert.True(t, tr.Amount.Equal(dec("33.33")))
	}
}

func TestComputeDebtsIdempotent(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("20.00")},
		{ParticipantID: "bob", Amount: dec("45.00")},
		{ParticipantID: "charlie", Amount: dec("35.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("100.00")},
	}

	first := ComputeDebts(splits, payments)
	second := ComputeDebts(splits, payments)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].From, second[i].From)
		assert.Equal(t, first[i].To, second[i].To)
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
	}
}

func TestComputeDebtsConservation(t *testing.T) {
	splits := []split.Split{
		{ParticipantID: "alice", Amount: dec("10.00")},
		{ParticipantID: "bob", Amount: dec("60.00")},
		{ParticipantID: "charlie", Amount: dec("30.00")},
	}
	payments := []split.Payment{
		{ParticipantID: "alice", Amount: dec("70.00")},
		{ParticipantID: "charlie", Amount: dec("30.00")},
	}

	transfers := ComputeDebts(splits, payments)

	// Bob owes 60; every cent of it lands with alice, who is owed 60.
	total := decimal.Zero
	for _, tr := range transfers {
		assert.Equal(t, "bob", tr.From)
		assert.Equal(t, "alice", tr.To)
		assert.False(t, tr.Amount.IsNegative())
		total = total.Add(tr.Amount)
	}
	assert.True(t, total.Equal(dec("60.00")), "total = %s", total)
}
