package services

import (
	"errors"
	"fmt"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidTicketCost   = errors.New("ticket cost must be positive")
	ErrInvalidTicketLimit  = errors.New("ticket limit must be positive")
	ErrTicketLimitExceeded = errors.New("wager exceeds ticket limit")
)

// AccrualResult summarizes one accrual pass
type AccrualResult struct {
	Issued     int  // tickets appended during the pass
	NewHolders int  // users who received their first ticket
	Shuffled   bool // numbering was permuted because the ledger started empty
	Rejected   int  // entries skipped because they owe more than the per-user limit
}

// AccrualEngine converts cumulative wager snapshots into ticket ledger growth
type AccrualEngine struct {
	ticketCost decimal.Decimal
	maxTickets int
	rng        interfaces.RandomSource
}

// NewAccrualEngine creates an engine issuing one ticket per ticketCost wagered.
// No user may hold more than maxTickets tickets in one round.
func NewAccrualEngine(ticketCost decimal.Decimal, maxTickets int, rng interfaces.RandomSource) (*AccrualEngine, error) {
	if !ticketCost.IsPositive() {
		return nil, ErrInvalidTicketCost
	}
	if maxTickets <= 0 {
		return nil, ErrInvalidTicketLimit
	}
	return &AccrualEngine{
		ticketCost: ticketCost,
		maxTickets: maxTickets,
		rng:        rng,
	}, nil
}

// TicketCost returns the wager amount that buys one ticket
func (e *AccrualEngine) TicketCost() decimal.Decimal {
	return e.ticketCost
}

// OwedTickets returns floor(amount / ticketCost); negative amounts owe nothing.
// Amounts owing more than the per-user limit return ErrTicketLimitExceeded.
func (e *AccrualEngine) OwedTickets(amount decimal.Decimal) (int, error) {
	if !amount.IsPositive() {
		return 0, nil
	}
	owed := amount.Div(e.ticketCost).Floor()
	if owed.GreaterThan(decimal.NewFromInt(int64(e.maxTickets))) {
		return 0, fmt.Errorf("%w: %s owes %s tickets, limit %d", ErrTicketLimitExceeded, amount, owed, e.maxTickets)
	}
	return int(owed.IntPart()), nil
}

// Accrue applies a snapshot to ledger in place. Issued tickets are never revoked:
// a lower reported amount only updates the last seen wager.
// Callers that need atomic visibility must pass a private copy of the ledger.
func (e *AccrualEngine) Accrue(ledger *entities.TicketLedger, entries []entities.WagerEntry) AccrualResult {
	var result AccrualResult
	wasEmpty := ledger.IsEmpty()

	for _, entry := range entities.NormalizeEntries(entries) {
		owed, err := e.OwedTickets(entry.Wagered)
		if err != nil {
			log.WithError(err).WithField("username", entry.Username).Warn("Skipping wager entry")
			result.Rejected++
			continue
		}
		held := ledger.TicketCount(entry.Username)

		if owed > held {
			if held == 0 {
				result.NewHolders++
			}
			ledger.Issue(entry.Username, owed-held)
			result.Issued += owed - held
		}
		ledger.ObserveWager(entry.Username, entry.Wagered)
	}

	if wasEmpty && result.Issued > 0 {
		ledger.PermuteNumbers(e.rng.IntN)
		result.Shuffled = true
	}

	return result
}
