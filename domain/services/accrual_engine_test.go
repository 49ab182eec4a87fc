package services

import (
	"math/rand/v2"
	"testing"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccrualEngine(t *testing.T) *AccrualEngine {
	t.Helper()
	engine, err := NewAccrualEngine(decimal.NewFromInt(100), 1_000_000, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return engine
}

func TestNewAccrualEngine_RejectsNonPositiveCost(t *testing.T) {
	t.Parallel()

	_, err := NewAccrualEngine(decimal.Zero, 10, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, ErrInvalidTicketCost)

	_, err = NewAccrualEngine(decimal.NewFromInt(-5), 10, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, ErrInvalidTicketCost)

	_, err = NewAccrualEngine(decimal.NewFromInt(100), 0, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, ErrInvalidTicketLimit)
}

func TestAccrualEngine_OwedTickets(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)

	tests := []struct {
		name     string
		amount   string
		expected int
	}{
		{name: "zero", amount: "0", expected: 0},
		{name: "below cost", amount: "99.99", expected: 0},
		{name: "exact", amount: "100", expected: 1},
		{name: "fractional", amount: "250.75", expected: 2},
		{name: "negative", amount: "-300", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			owed, err := engine.OwedTickets(decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, owed)
		})
	}
}

func TestAccrualEngine_OwedTicketsAboveLimit(t *testing.T) {
	t.Parallel()

	engine, err := NewAccrualEngine(decimal.NewFromInt(100), 50, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	owed, err := engine.OwedTickets(decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.Equal(t, 50, owed)

	_, err = engine.OwedTickets(decimal.NewFromInt(5100))
	assert.ErrorIs(t, err, ErrTicketLimitExceeded)

	_, err = engine.OwedTickets(decimal.RequireFromString("1e25"))
	assert.ErrorIs(t, err, ErrTicketLimitExceeded)
}

func TestAccrualEngine_SkipsEntriesAboveLimit(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)
	ledger := entities.NewTicketLedger()

	var result AccrualResult
	assert.NotPanics(t, func() {
		result = engine.Accrue(ledger, []entities.WagerEntry{
			{Username: "whale", Wagered: decimal.RequireFromString("1e25")},
			{Username: "alice", Wagered: decimal.NewFromInt(300)},
		})
	})

	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 3, result.Issued)
	assert.Equal(t, 0, ledger.TicketCount("whale"))
	assert.Equal(t, 3, ledger.TicketCount("alice"))

	// a later sane figure for the same user is accrued normally
	engine.Accrue(ledger, testhelpers.Wagers("whale", 200))
	assert.Equal(t, 2, ledger.TicketCount("whale"))
}

func TestAccrualEngine_IncrementalScenario(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)
	ledger := entities.NewTicketLedger()

	first := engine.Accrue(ledger, testhelpers.Wagers("alice", 250, "bob", 50))
	assert.Equal(t, 2, first.Issued)
	assert.Equal(t, 1, first.NewHolders)
	assert.True(t, first.Shuffled)
	assert.Equal(t, 2, ledger.TicketCount("alice"))
	assert.Equal(t, 0, ledger.TicketCount("bob"))
	assert.Equal(t, int64(3), ledger.NextTicketNumber)

	aliceBefore := append([]int64(nil), ledger.TicketsByUser["alice"]...)

	second := engine.Accrue(ledger, testhelpers.Wagers("alice", 320, "bob", 150))
	assert.Equal(t, 2, second.Issued)
	assert.False(t, second.Shuffled)
	assert.Equal(t, 3, ledger.TicketCount("alice"))
	assert.Equal(t, 1, ledger.TicketCount("bob"))
	assert.Equal(t, int64(5), ledger.NextTicketNumber)

	// earlier numbers are untouched; new tickets take the next numbers in issuance order
	assert.Equal(t, aliceBefore, ledger.TicketsByUser["alice"][:2])
	assert.Equal(t, int64(3), ledger.TicketsByUser["alice"][2])
	assert.Equal(t, []int64{4}, ledger.TicketsByUser["bob"])
}

func TestAccrualEngine_TicketCountMatchesFormula(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)
	ledger := entities.NewTicketLedger()
	snapshots := [][]entities.WagerEntry{
		testhelpers.Wagers("alice", 120, "bob", 990, "carol", 5),
		testhelpers.Wagers("alice", 480, "bob", 1001, "dave", 333),
		testhelpers.Wagers("alice", 480.5, "carol", 700, "dave", 333),
	}

	for _, snapshot := range snapshots {
		engine.Accrue(ledger, snapshot)

		total := 0
		for username, wagered := range ledger.LastSeenWagered {
			owed, err := engine.OwedTickets(wagered)
			require.NoError(t, err)
			assert.Equal(t, owed, ledger.TicketCount(username), username)
			total += ledger.TicketCount(username)
		}
		assert.Equal(t, int64(total+1), ledger.NextTicketNumber)

		seen := make(map[int64]bool)
		for _, entry := range ledger.Entries() {
			assert.False(t, seen[entry.TicketNumber])
			seen[entry.TicketNumber] = true
		}
	}
}

func TestAccrualEngine_NeverRevokesTickets(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)
	ledger := entities.NewTicketLedger()

	engine.Accrue(ledger, testhelpers.Wagers("alice", 500))
	result := engine.Accrue(ledger, testhelpers.Wagers("alice", 200))

	assert.Equal(t, 0, result.Issued)
	assert.Equal(t, 5, ledger.TicketCount("alice"))
	assert.True(t, decimal.NewFromInt(200).Equal(ledger.LastSeenWagered["alice"]))

	// absent users keep their tickets
	engine.Accrue(ledger, testhelpers.Wagers("bob", 100))
	assert.Equal(t, 5, ledger.TicketCount("alice"))
	assert.Equal(t, 1, ledger.TicketCount("bob"))
}

func TestAccrualEngine_ShufflesOnlyFirstIssuingPass(t *testing.T) {
	t.Parallel()

	engine := newTestAccrualEngine(t)
	ledger := entities.NewTicketLedger()

	// observed wagers without tickets leave the ledger empty, so no shuffle yet
	result := engine.Accrue(ledger, testhelpers.Wagers("alice", 50))
	assert.False(t, result.Shuffled)

	result = engine.Accrue(ledger, testhelpers.Wagers("alice", 5000, "bob", 5000))
	assert.True(t, result.Shuffled)
	assert.Equal(t, 100, ledger.TotalTickets())

	result = engine.Accrue(ledger, testhelpers.Wagers("carol", 300))
	assert.False(t, result.Shuffled)
	assert.Equal(t, []int64{101, 102, 103}, ledger.TicketsByUser["carol"])
}

func TestAccrualEngine_FirstPassNumberingIsPermuted(t *testing.T) {
	t.Parallel()

	engine, err := NewAccrualEngine(decimal.NewFromInt(1), 1_000_000, testhelpers.NewSequenceRandom(0))
	require.NoError(t, err)
	ledger := entities.NewTicketLedger()

	engine.Accrue(ledger, testhelpers.Wagers("alice", 2, "bob", 2))

	// with every swap targeting index 0 the sequential numbering 1,2 | 3,4 no longer holds
	assert.NotEqual(t, []int64{1, 2}, ledger.TicketsByUser["alice"])
	assert.Equal(t, 4, ledger.TotalTickets())
}
