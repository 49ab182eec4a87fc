package entities

import (
	"time"
)

// TrackedUser is a bettor whose bets are kept permanently and forwarded to a webhook
type TrackedUser struct {
	Username      string
	WebhookURL    string
	TrackingSince time.Time
}

// HasWebhook returns true if notifications can be delivered for this user
func (t *TrackedUser) HasWebhook() bool {
	return t.WebhookURL != ""
}

// TrackedUserSummary is the public listing of a tracked user; the webhook is masked
type TrackedUserSummary struct {
	Username      string    `json:"username"`
	TotalBets     int       `json:"totalBets"`
	WebhookURL    string    `json:"webhookUrl"`
	TrackingSince time.Time `json:"trackingSince"`
}

// TrackedUserBets is a tracked user's permanent bet history, newest first
type TrackedUserBets struct {
	Username      string    `json:"username"`
	TotalBets     int       `json:"totalBets"`
	TrackingSince time.Time `json:"trackingSince"`
	Bets          []*Bet    `json:"bets"`
}
