package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBet_UnmarshalTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "epoch milliseconds",
			payload:  `{"username":"alice","timestamp":1755000000000}`,
			expected: time.UnixMilli(1755000000000).UTC(),
		},
		{
			name:     "rfc3339 string",
			payload:  `{"username":"alice","timestamp":"2025-08-12T10:00:00Z"}`,
			expected: time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "missing",
			payload: `{"username":"alice"}`,
		},
		{
			name:    "null",
			payload: `{"username":"alice","timestamp":null}`,
		},
		{
			name:    "garbage",
			payload: `{"username":"alice","timestamp":"yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var bet Bet
			err := json.Unmarshal([]byte(tt.payload), &bet)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(bet.Timestamp.Time))
		})
	}
}

func TestBet_PlacedAtFallsBackToReceivedAt(t *testing.T) {
	t.Parallel()

	received := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	bet := Bet{ReceivedAt: received}
	assert.Equal(t, received, bet.PlacedAt())

	placed := received.Add(-time.Hour)
	bet.Timestamp = BetTime{placed}
	assert.Equal(t, placed, bet.PlacedAt())
}

func TestBet_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, (&Bet{}).Validate(), ErrInvalidBet)
	assert.ErrorIs(t, (&Bet{Username: "a", BetAmountUSD: decimal.NewFromInt(-1)}).Validate(), ErrInvalidBet)
	assert.NoError(t, (&Bet{Username: "a", BetAmountUSD: decimal.NewFromInt(1)}).Validate())
}

func TestBet_WonAndProfit(t *testing.T) {
	t.Parallel()

	loss := Bet{BetAmountUSD: decimal.NewFromInt(10)}
	assert.False(t, loss.Won())
	assert.True(t, decimal.NewFromInt(-10).Equal(loss.ProfitUSD()))

	win := Bet{BetAmountUSD: decimal.NewFromInt(10), PayoutUSD: decimal.NewFromInt(25)}
	assert.True(t, win.Won())
	assert.True(t, decimal.NewFromInt(15).Equal(win.ProfitUSD()))
}

func TestBetTime_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(BetTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(BetTime{time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-08-12T10:00:00Z"`, string(data))
}
