package bets

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/bot/common"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// BuildBetEmbed creates the notification embed for a single tracked bet
func BuildBetEmbed(bet *entities.Bet, stats *entities.StatsView) *discordgo.MessageEmbed {
	outcome := "LOSS"
	color := common.ColorDanger
	if bet.Won() {
		outcome = "WIN"
		color = common.ColorSuccess
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: fmt.Sprintf("%s • Bet Notification", bet.Username),
		},
		Title:     fmt.Sprintf("%s • %s", outcome, bet.Game),
		Color:     color,
		Timestamp: bet.PlacedAt().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: common.FooterText},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🎲 Bet Details",
				Value: buildBetDetails(bet),
			},
		},
	}

	if stats == nil {
		return embed
	}

	embed.Fields = append(embed.Fields,
		periodField("📅 Daily", stats.Daily),
		periodField("📆 Weekly", stats.Weekly),
		periodField("🗓️ Monthly", stats.Monthly),
	)

	if stats.AllTime != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🏦 Lifetime",
			Value: fmt.Sprintf("Bets: **%s**\nWagered: **%s**\nProfit: **%s**",
				utils.FormatShortNotation(int64(stats.AllTime.TotalBets)),
				common.FormatUSD(stats.AllTime.TotalWageredUSD),
				common.FormatProfit(stats.AllTime.TotalProfitUSD)),
		})
	}

	return embed
}

// BuildStatsEmbed creates the summary embed for one stats period
func BuildStatsEmbed(report *entities.StatsReport) *discordgo.MessageEmbed {
	title := fmt.Sprintf("📊 %s Stats for %s", periodTitle(report.Period), report.Key)
	if report.Username != "" {
		title = fmt.Sprintf("📊 %s Stats for %s (%s)", periodTitle(report.Period), report.Username, report.Key)
	}

	stats := report.Stats
	if stats == nil {
		stats = entities.NewPeriodStats()
	}

	color := common.ColorInfo
	if stats.TotalProfitUSD.IsNegative() {
		color = common.ColorDanger
	} else if stats.TotalProfitUSD.IsPositive() {
		color = common.ColorSuccess
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Footer: &discordgo.MessageEmbedFooter{Text: common.FooterText},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total Bets",
				Value:  common.FormatCount(int64(stats.TotalBets)),
				Inline: true,
			},
			{
				Name:   "Total Wagered",
				Value:  common.FormatUSD(stats.TotalWageredUSD),
				Inline: true,
			},
			{
				Name:   "Total Profit",
				Value:  common.FormatProfit(stats.TotalProfitUSD),
				Inline: true,
			},
			{
				Name:   "Win Rate",
				Value:  fmt.Sprintf("%s (%d W / %d L)", common.FormatPercent(stats.WinRate), stats.Wins, stats.Losses),
				Inline: true,
			},
			{
				Name:   "Biggest Win",
				Value:  common.FormatProfit(stats.BiggestWinUSD),
				Inline: true,
			},
			{
				Name:   "Biggest Loss",
				Value:  common.FormatProfit(stats.BiggestLossUSD),
				Inline: true,
			},
		},
	}

	if games := formatGames(stats.Games); games != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Games Played",
			Value: common.TruncateField(games),
		})
	}

	return embed
}

func buildBetDetails(bet *entities.Bet) string {
	betText := bet.BetAmountText
	if betText == "" {
		betText = fmt.Sprintf("%s %s", bet.BetAmountUSD.StringFixed(2), bet.Currency)
	}
	multiplier := bet.MultiplierText
	if multiplier == "" {
		multiplier = bet.Multiplier.StringFixed(2) + "x"
	}
	payoutText := bet.PayoutText
	if payoutText == "" {
		payoutText = "-"
	}

	lines := []string{
		fmt.Sprintf("Bet:        %s", betText),
		fmt.Sprintf("USD Value:  %s", common.FormatUSD(bet.BetAmountUSD)),
		fmt.Sprintf("Multiplier: %s", multiplier),
		fmt.Sprintf("Payout:     %s", payoutText),
		fmt.Sprintf("USD Value:  %s", common.FormatUSD(bet.PayoutUSD)),
		fmt.Sprintf("Profit:     %s", common.FormatProfit(bet.ProfitUSD())),
	}
	return "```\n" + strings.Join(lines, "\n") + "\n```"
}

func periodField(name string, stats *entities.PeriodStats) *discordgo.MessageEmbedField {
	if stats == nil {
		stats = entities.NewPeriodStats()
	}
	return &discordgo.MessageEmbedField{
		Name: name,
		Value: fmt.Sprintf("Bets: **%d**\nWin Rate: **%s**\nProfit: **%s**",
			stats.TotalBets,
			common.FormatPercent(stats.WinRate),
			common.FormatProfit(stats.TotalProfitUSD)),
		Inline: true,
	}
}

func periodTitle(period entities.StatsPeriod) string {
	switch period {
	case entities.StatsPeriodWeekly:
		return "Weekly"
	case entities.StatsPeriodMonthly:
		return "Monthly"
	default:
		return "Daily"
	}
}

// formatGames lists games by play count, most played first
func formatGames(games map[string]int) string {
	type gameCount struct {
		name  string
		count int
	}
	counts := make([]gameCount, 0, len(games))
	for name, count := range games {
		counts = append(counts, gameCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	lines := make([]string, len(counts))
	for i, gc := range counts {
		lines[i] = fmt.Sprintf("%s: %d", gc.name, gc.count)
	}
	return strings.Join(lines, "\n")
}
