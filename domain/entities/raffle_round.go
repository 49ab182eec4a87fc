package entities

import (
	"time"
)

// RoundState is the lifecycle position of a raffle round
type RoundState string

const (
	RoundStateAccruing RoundState = "accruing"
	RoundStateVisible  RoundState = "visible"
	RoundStateArchived RoundState = "archived"
)

// RaffleRound owns the ledger for one accrual window
type RaffleRound struct {
	Key          string
	Window       Window
	VisibleFrom  time.Time
	VisibleUntil time.Time
	Ledger       *TicketLedger

	// Set once when the round is published; never cleared
	Published        bool
	PublishedAt      *time.Time
	PublishedTickets *TicketLedger
	Draw             *DrawResult

	ArchivedAt *time.Time
}

// StateAt returns the round's state at the given instant
func (r *RaffleRound) StateAt(now time.Time) RoundState {
	switch {
	case !now.Before(r.VisibleUntil):
		return RoundStateArchived
	case !now.Before(r.VisibleFrom):
		return RoundStateVisible
	default:
		return RoundStateAccruing
	}
}

// CanAccrue returns true while the ledger may still receive tickets
func (r *RaffleRound) CanAccrue() bool {
	return !r.Published && r.ArchivedAt == nil
}

// IsArchived returns true once the round has been moved to the archive
func (r *RaffleRound) IsArchived() bool {
	return r.ArchivedAt != nil
}

// WithLedger returns a copy of the round holding the given ledger
func (r *RaffleRound) WithLedger(ledger *TicketLedger) *RaffleRound {
	next := *r
	next.Ledger = ledger
	return &next
}

// Publish returns a copy of the round frozen with an immutable ticket snapshot
func (r *RaffleRound) Publish(at time.Time, draw *DrawResult) *RaffleRound {
	next := *r
	next.Published = true
	next.PublishedAt = &at
	next.PublishedTickets = draw.SourceSnapshot
	next.Draw = draw
	return &next
}

// Archive returns a copy of the round marked as archived
func (r *RaffleRound) Archive(at time.Time) *RaffleRound {
	next := *r
	next.ArchivedAt = &at
	return &next
}

// Tickets returns the ledger the public should see: the published snapshot if any
func (r *RaffleRound) Tickets() *TicketLedger {
	if r.PublishedTickets != nil {
		return r.PublishedTickets
	}
	return r.Ledger
}
