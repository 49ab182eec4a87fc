package interfaces

import (
	"context"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
)

// WagerSnapshotSource supplies cumulative wagered amounts per user for a window.
// Implementations may be slow or fail; any error means the snapshot must not be used.
type WagerSnapshotSource interface {
	FetchWagers(ctx context.Context, window entities.Window) ([]entities.WagerEntry, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// RandomSource returns uniform integers in [0, n)
type RandomSource interface {
	IntN(n int) int
}

// NotificationSink delivers formatted bet, stats and draw notifications.
// Callers log and drop failures; sinks must not retry.
type NotificationSink interface {
	NotifyBet(ctx context.Context, webhookURL string, bet *entities.Bet, stats *entities.StatsView) error
	NotifyStats(ctx context.Context, webhookURL string, report *entities.StatsReport) error
	NotifyDraw(ctx context.Context, webhookURL string, round *entities.RaffleRound) error
}
