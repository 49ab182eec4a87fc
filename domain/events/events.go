package events

import (
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRoundPublished       EventType = "round_published"
	EventTypeRoundArchived        EventType = "round_archived"
	EventTypeDrawCompleted        EventType = "draw_completed"
	EventTypeLeaderboardRefreshed EventType = "leaderboard_refreshed"
	EventTypeBetTracked           EventType = "bet_tracked"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RoundPublishedEvent is emitted once when a round's ticket list is frozen
type RoundPublishedEvent struct {
	RoundKey     string    `json:"roundKey"`
	WindowStart  string    `json:"windowStart"`
	WindowEnd    string    `json:"windowEnd"`
	TotalTickets int       `json:"totalTickets"`
	Participants int       `json:"participants"`
	PublishedAt  time.Time `json:"publishedAt"`
}

func (e RoundPublishedEvent) Type() EventType {
	return EventTypeRoundPublished
}

// RoundArchivedEvent is emitted when a round's visibility period ends
type RoundArchivedEvent struct {
	RoundKey   string    `json:"roundKey"`
	ArchivedAt time.Time `json:"archivedAt"`
}

func (e RoundArchivedEvent) Type() EventType {
	return EventTypeRoundArchived
}

// DrawCompletedEvent carries masked winners of a round's draw
type DrawCompletedEvent struct {
	RoundKey        string    `json:"roundKey"`
	Winners         []string  `json:"winners"`
	WithReplacement bool      `json:"withReplacement"`
	TotalTickets    int       `json:"totalTickets"`
	DrawnAt         time.Time `json:"drawnAt"`
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// LeaderboardRefreshedEvent is emitted after a successful snapshot refresh
type LeaderboardRefreshedEvent struct {
	WindowKey string    `json:"windowKey"`
	Entries   int       `json:"entries"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e LeaderboardRefreshedEvent) Type() EventType {
	return EventTypeLeaderboardRefreshed
}

// BetTrackedEvent is emitted for every ingested bet
type BetTrackedEvent struct {
	BetID     string    `json:"betId"`
	Username  string    `json:"username"`
	Game      string    `json:"game"`
	AmountUSD string    `json:"amountUSD"`
	PayoutUSD string    `json:"payoutUSD"`
	Won       bool      `json:"won"`
	Tracked   bool      `json:"tracked"`
	PlacedAt  time.Time `json:"placedAt"`
}

func (e BetTrackedEvent) Type() EventType {
	return EventTypeBetTracked
}
