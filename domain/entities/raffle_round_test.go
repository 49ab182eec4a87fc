package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRound() *RaffleRound {
	start := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
	window := Window{Start: start, End: start.AddDate(0, 0, 13)}
	return &RaffleRound{
		Key:          window.Key(),
		Window:       window,
		VisibleFrom:  window.EndBoundary(),
		VisibleUntil: window.EndBoundary().AddDate(0, 0, 14),
		Ledger:       NewTicketLedger(),
	}
}

func TestRaffleRound_StateAt(t *testing.T) {
	t.Parallel()

	round := testRound()

	tests := []struct {
		name     string
		now      time.Time
		expected RoundState
	}{
		{name: "window start", now: round.Window.Start, expected: RoundStateAccruing},
		{name: "just before visible", now: round.VisibleFrom.Add(-time.Second), expected: RoundStateAccruing},
		{name: "visible from", now: round.VisibleFrom, expected: RoundStateVisible},
		{name: "just before archive", now: round.VisibleUntil.Add(-time.Second), expected: RoundStateVisible},
		{name: "visible until", now: round.VisibleUntil, expected: RoundStateArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, round.StateAt(tt.now))
		})
	}
}

func TestRaffleRound_PublishAndArchiveReturnCopies(t *testing.T) {
	t.Parallel()

	round := testRound()
	round.Ledger.Issue("alice", 2)
	at := round.VisibleFrom

	draw := &DrawResult{RoundKey: round.Key, SourceSnapshot: round.Ledger.Clone()}
	published := round.Publish(at, draw)

	assert.False(t, round.Published)
	assert.True(t, round.CanAccrue())
	assert.True(t, published.Published)
	assert.False(t, published.CanAccrue())
	assert.Equal(t, at, *published.PublishedAt)
	assert.Same(t, draw.SourceSnapshot, published.Tickets())
	assert.Same(t, round.Ledger, round.Tickets())

	archived := published.Archive(round.VisibleUntil)
	assert.False(t, published.IsArchived())
	assert.True(t, archived.IsArchived())
	assert.True(t, archived.Published)
}

func TestWindow_KeyAndBoundaries(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
	window := Window{Start: start, End: start.AddDate(0, 0, 13)}

	assert.Equal(t, "2025-08-11_2025-08-24", window.Key())
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), window.EndBoundary())
	assert.True(t, window.Contains(start))
	assert.True(t, window.Contains(time.Date(2025, 8, 24, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(window.EndBoundary()))
}
