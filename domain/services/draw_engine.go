package services

import (
	"sync"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
)

// DrawEngine picks raffle winners. Each round key is drawn at most once;
// later calls return the cached result.
type DrawEngine struct {
	rng interfaces.RandomSource

	mu      sync.Mutex
	results map[string]*entities.DrawResult
}

// NewDrawEngine creates a draw engine using rng for ticket selection
func NewDrawEngine(rng interfaces.RandomSource) *DrawEngine {
	return &DrawEngine{
		rng:     rng,
		results: make(map[string]*entities.DrawResult),
	}
}

// Draw selects winnerCount winners from a snapshot of ledger.
// With at least winnerCount distinct holders every winner is a different user;
// otherwise all slots are drawn with replacement over the full ticket pool.
func (e *DrawEngine) Draw(roundKey string, ledger *entities.TicketLedger, winnerCount int, at time.Time) *entities.DrawResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.results[roundKey]; ok {
		return cached
	}

	snapshot := ledger.Clone()
	pool := snapshot.Entries()

	result := &entities.DrawResult{
		RoundKey:       roundKey,
		Winners:        []entities.Winner{},
		TotalTickets:   len(pool),
		DrawnAt:        at,
		SourceSnapshot: snapshot,
	}

	if len(pool) > 0 && winnerCount > 0 {
		if snapshot.DistinctHolders() < winnerCount {
			result.WithReplacement = true
			result.Winners = e.drawWithReplacement(pool, winnerCount)
		} else {
			result.Winners = e.drawUnique(pool, winnerCount)
		}
	}

	e.results[roundKey] = result
	return result
}

// Result returns the cached draw for roundKey, if any
func (e *DrawEngine) Result(roundKey string) (*entities.DrawResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	result, ok := e.results[roundKey]
	return result, ok
}

func (e *DrawEngine) drawWithReplacement(pool []entities.TicketEntry, winnerCount int) []entities.Winner {
	winners := make([]entities.Winner, 0, winnerCount)
	for len(winners) < winnerCount {
		ticket := pool[e.rng.IntN(len(pool))]
		winners = append(winners, entities.Winner{Username: ticket.Username, TicketNumber: ticket.TicketNumber})
	}
	return winners
}

// drawUnique removes a winner's remaining tickets after each pick, which is
// equivalent to redrawing whenever an earlier winner's ticket comes up
func (e *DrawEngine) drawUnique(pool []entities.TicketEntry, winnerCount int) []entities.Winner {
	remaining := make([]entities.TicketEntry, len(pool))
	copy(remaining, pool)

	winners := make([]entities.Winner, 0, winnerCount)
	for len(winners) < winnerCount && len(remaining) > 0 {
		ticket := remaining[e.rng.IntN(len(remaining))]
		winners = append(winners, entities.Winner{Username: ticket.Username, TicketNumber: ticket.TicketNumber})

		kept := remaining[:0]
		for _, t := range remaining {
			if t.Username != ticket.Username {
				kept = append(kept, t)
			}
		}
		remaining = kept
	}
	return winners
}
