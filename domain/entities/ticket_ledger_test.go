package entities

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketLedger_Issue(t *testing.T) {
	t.Parallel()

	ledger := NewTicketLedger()
	assert.True(t, ledger.IsEmpty())
	assert.Equal(t, int64(1), ledger.NextTicketNumber)

	assert.Equal(t, []int64{1, 2}, ledger.Issue("alice", 2))
	assert.Equal(t, []int64{3}, ledger.Issue("bob", 1))
	assert.Equal(t, []int64{4}, ledger.Issue("alice", 1))

	assert.Equal(t, []int64{1, 2, 4}, ledger.TicketsByUser["alice"])
	assert.Equal(t, 3, ledger.TicketCount("alice"))
	assert.Equal(t, 4, ledger.TotalTickets())
	assert.Equal(t, int64(5), ledger.NextTicketNumber)
	assert.Equal(t, []string{"alice", "bob"}, ledger.Users())
	assert.Equal(t, 2, ledger.DistinctHolders())
}

func TestTicketLedger_ObserveWagerTracksWithoutTickets(t *testing.T) {
	t.Parallel()

	ledger := NewTicketLedger()
	ledger.ObserveWager("carol", decimal.NewFromInt(50))

	assert.Equal(t, []string{"carol"}, ledger.Users())
	assert.Equal(t, 0, ledger.DistinctHolders())
	assert.Empty(t, ledger.Holdings())
	assert.True(t, decimal.NewFromInt(50).Equal(ledger.LastSeenWagered["carol"]))
}

func TestTicketLedger_PermuteNumbersKeepsCountsAndUniqueness(t *testing.T) {
	t.Parallel()

	ledger := NewTicketLedger()
	ledger.Issue("alice", 5)
	ledger.Issue("bob", 3)
	ledger.Issue("carol", 2)

	ledger.PermuteNumbers(rand.New(rand.NewPCG(1, 2)).IntN)

	assert.Equal(t, 5, ledger.TicketCount("alice"))
	assert.Equal(t, 3, ledger.TicketCount("bob"))
	assert.Equal(t, 2, ledger.TicketCount("carol"))
	assert.Equal(t, int64(11), ledger.NextTicketNumber)

	seen := make(map[int64]bool)
	for _, entry := range ledger.Entries() {
		assert.False(t, seen[entry.TicketNumber], "duplicate ticket %d", entry.TicketNumber)
		seen[entry.TicketNumber] = true
		assert.GreaterOrEqual(t, entry.TicketNumber, int64(1))
		assert.LessOrEqual(t, entry.TicketNumber, int64(10))
	}
	assert.Len(t, seen, 10)

	for _, holding := range ledger.Holdings() {
		assert.IsIncreasing(t, holding.TicketNumbers)
	}
}

func TestTicketLedger_EntriesSortedByNumber(t *testing.T) {
	t.Parallel()

	ledger := NewTicketLedger()
	ledger.Issue("alice", 2)
	ledger.Issue("bob", 2)
	ledger.PermuteNumbers(func(n int) int { return 0 })

	entries := ledger.Entries()
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, int64(i+1), entry.TicketNumber)
	}
}

func TestTicketLedger_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	ledger := NewTicketLedger()
	ledger.Issue("alice", 2)
	ledger.ObserveWager("alice", decimal.NewFromInt(200))

	clone := ledger.Clone()
	assert.Equal(t, ledger, clone)

	clone.Issue("alice", 1)
	clone.Issue("bob", 1)
	clone.ObserveWager("alice", decimal.NewFromInt(300))

	assert.Equal(t, []int64{1, 2}, ledger.TicketsByUser["alice"])
	assert.Equal(t, []string{"alice"}, ledger.Users())
	assert.Equal(t, int64(3), ledger.NextTicketNumber)
	assert.True(t, decimal.NewFromInt(200).Equal(ledger.LastSeenWagered["alice"]))
}
