package entities

import (
	"time"
)

// LeaderboardEntry is a single public leaderboard row. Username is already masked.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Username      string `json:"username"`
	Wagered       int64  `json:"wagered"`
	WeightedWager int64  `json:"weightedWager"`
}

// Leaderboard is the cached, display-ready ranking for a window
type Leaderboard struct {
	WindowKey string             `json:"windowKey"`
	Start     string             `json:"start"`
	End       string             `json:"end"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// EmptyLeaderboard returns a leaderboard with no rows for the window
func EmptyLeaderboard(w Window) *Leaderboard {
	return &Leaderboard{
		WindowKey: w.Key(),
		Start:     w.StartDate(),
		End:       w.EndDate(),
		Entries:   []LeaderboardEntry{},
	}
}
