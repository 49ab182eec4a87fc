package api

import (
	"context"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/services"
)

// RaffleReader exposes the raffle state served by the public endpoints
type RaffleReader interface {
	CurrentRound() *entities.RaffleRound
	VisibleRound() *entities.RaffleRound
	ArchivedRounds() []*entities.RaffleRound
	DrawResults() []*entities.DrawResult
	UserTickets(username string) entities.UserTickets
}

// LeaderboardReader exposes cached leaderboards
type LeaderboardReader interface {
	Current(now time.Time) *entities.Leaderboard
	Previous(ctx context.Context, now time.Time) (*entities.Leaderboard, error)
}

// BetTracker ingests bets and serves bettor stats and tracked-user management
type BetTracker interface {
	Track(ctx context.Context, bet *entities.Bet) (services.TrackResult, error)
	Bets(limit int, username string) []*entities.Bet
	Users() []entities.UserSummary
	UserStats(username string, at time.Time) *entities.StatsView
	PeriodStats(period entities.StatsPeriod, username string, at time.Time) *entities.PeriodStats
	SendStats(ctx context.Context, period entities.StatsPeriod, username string, at time.Time) error
	VerifyAdmin(password string) error
	TrackUser(password, username, webhookURL string, now time.Time) error
	UntrackUser(password, username string) error
	TrackedUsers() []entities.TrackedUserSummary
	TrackedUserBets(username string) *entities.TrackedUserBets
}
