package application

import (
	"context"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/services"
)

// RaffleEngine is the raffle state the refresh worker drives
type RaffleEngine interface {
	Rotate(now time.Time)
	PendingRounds() []*entities.RaffleRound
	Accrue(key string, entries []entities.WagerEntry) (services.AccrualResult, error)
	Publish(now time.Time) []*entities.RaffleRound
}

// LeaderboardRefresher rebuilds cached leaderboards from fetched snapshots
type LeaderboardRefresher interface {
	Refresh(w entities.Window, entries []entities.WagerEntry, at time.Time) *entities.Leaderboard
}

// WindowLocator maps an instant to its accrual window
type WindowLocator interface {
	WindowAt(now time.Time) entities.Window
}

// StatsReporter sends period stats to tracked users
type StatsReporter interface {
	ReportTrackedUsers(ctx context.Context, period entities.StatsPeriod, at time.Time) int
}

// Pinger issues a keep-alive request
type Pinger interface {
	Ping(ctx context.Context, url string) error
}
