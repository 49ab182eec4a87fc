package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidBet = errors.New("invalid bet")

// Bet is a normalized bet event forwarded by the live-bets scraper
type Bet struct {
	BetID          string          `json:"betId"`
	Username       string          `json:"username"`
	Game           string          `json:"game"`
	Currency       string          `json:"currency"`
	BetAmountText  string          `json:"betAmountText"`
	BetAmountUSD   decimal.Decimal `json:"betAmountUSD"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	MultiplierText string          `json:"multiplierText"`
	PayoutText     string          `json:"payoutText"`
	PayoutUSD      decimal.Decimal `json:"payoutUSD"`
	IsWin          bool            `json:"isWin"`
	Timestamp      BetTime         `json:"timestamp"`
	ReceivedAt     time.Time       `json:"receivedAt"`
}

// Validate checks the fields required to attribute and aggregate a bet
func (b *Bet) Validate() error {
	if strings.TrimSpace(b.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidBet)
	}
	if b.BetAmountUSD.IsNegative() {
		return fmt.Errorf("%w: bet amount cannot be negative", ErrInvalidBet)
	}
	return nil
}

// Won reports whether the bet counts as a win: flagged by the scraper or paid out
func (b *Bet) Won() bool {
	return b.IsWin || b.PayoutUSD.IsPositive()
}

// ProfitUSD returns payout minus stake
func (b *Bet) ProfitUSD() decimal.Decimal {
	return b.PayoutUSD.Sub(b.BetAmountUSD)
}

// PlacedAt returns the bet time, falling back to when it was received
func (b *Bet) PlacedAt() time.Time {
	if b.Timestamp.IsZero() {
		return b.ReceivedAt
	}
	return b.Timestamp.Time
}

// BetTime accepts either epoch milliseconds or an RFC3339 string
type BetTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *BetTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", string(data), err)
	}
	t.Time = time.UnixMilli(millis).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler
func (t BetTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}
