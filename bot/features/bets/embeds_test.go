package bets

import (
	"strings"
	"testing"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/bot/common"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBet(bet, payout string) *entities.Bet {
	return &entities.Bet{
		BetID:          "b1",
		Username:       "alice",
		Game:           "Plinko",
		Currency:       "USDT",
		BetAmountText:  "10 USDT",
		BetAmountUSD:   decimal.RequireFromString(bet),
		Multiplier:     decimal.RequireFromString("2.5"),
		MultiplierText: "2.5x",
		PayoutText:     "25 USDT",
		PayoutUSD:      decimal.RequireFromString(payout),
		Timestamp:      entities.BetTime{Time: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)},
	}
}

func TestBuildBetEmbed_Win(t *testing.T) {
	t.Parallel()

	bet := testBet("10", "25")
	stats := entities.NewUserStats("alice")
	stats.Apply(bet)

	embed := BuildBetEmbed(bet, stats.View(bet.PlacedAt()))

	assert.Equal(t, "WIN • Plinko", embed.Title)
	assert.Equal(t, common.ColorSuccess, embed.Color)
	require.NotNil(t, embed.Author)
	assert.Equal(t, "alice • Bet Notification", embed.Author.Name)
	require.Len(t, embed.Fields, 5)
	assert.Contains(t, embed.Fields[0].Value, "Profit:     +$15.00")
	assert.True(t, strings.HasPrefix(embed.Fields[0].Value, "```"))
	assert.True(t, embed.Fields[1].Inline)
	assert.Contains(t, embed.Fields[1].Value, "Win Rate: **100.0%**")
	assert.Contains(t, embed.Fields[4].Value, "Bets: **1**")
	assert.Contains(t, embed.Fields[4].Value, "Wagered: **$10.00**")
}

func TestBuildBetEmbed_LossWithoutStats(t *testing.T) {
	t.Parallel()

	bet := testBet("10", "0")
	bet.MultiplierText = ""
	bet.PayoutText = ""

	embed := BuildBetEmbed(bet, nil)

	assert.Equal(t, "LOSS • Plinko", embed.Title)
	assert.Equal(t, common.ColorDanger, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "Multiplier: 2.50x")
	assert.Contains(t, embed.Fields[0].Value, "Payout:     -")
	assert.Contains(t, embed.Fields[0].Value, "Profit:     -$10.00")
}

func TestBuildStatsEmbed(t *testing.T) {
	t.Parallel()

	stats := entities.NewPeriodStats()
	stats.Apply(testBet("10", "0"))
	stats.Apply(testBet("5", "0"))
	dice := testBet("5", "0")
	dice.Game = "Dice"
	stats.Apply(dice)

	tests := []struct {
		name     string
		report   *entities.StatsReport
		title    string
		color    int
		hasGames bool
	}{
		{
			name:     "global daily",
			report:   &entities.StatsReport{Period: entities.StatsPeriodDaily, Key: "2026-10-15", Stats: stats},
			title:    "📊 Daily Stats for 2026-10-15",
			color:    common.ColorDanger,
			hasGames: true,
		},
		{
			name:   "user weekly without bets",
			report: &entities.StatsReport{Username: "bob", Period: entities.StatsPeriodWeekly, Key: "2026-W42"},
			title:  "📊 Weekly Stats for bob (2026-W42)",
			color:  common.ColorInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			embed := BuildStatsEmbed(tt.report)
			assert.Equal(t, tt.title, embed.Title)
			assert.Equal(t, tt.color, embed.Color)
			if tt.hasGames {
				require.Len(t, embed.Fields, 7)
				assert.Equal(t, "Plinko: 2\nDice: 1", embed.Fields[6].Value)
			} else {
				assert.Len(t, embed.Fields, 6)
			}
		})
	}
}
