package raffle

import (
	"fmt"
	"strings"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/bot/common"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// BuildDrawEmbed announces a published round and its masked winners
func BuildDrawEmbed(round *entities.RaffleRound) *discordgo.MessageEmbed {
	tickets := round.Tickets()

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("🎟️ Raffle Draw • %s to %s", round.Window.StartDate(), round.Window.EndDate()),
		Color:  common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{Text: common.FooterText},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total Tickets",
				Value:  common.FormatCount(int64(tickets.TotalTickets())),
				Inline: true,
			},
			{
				Name:   "Participants",
				Value:  common.FormatCount(int64(tickets.DistinctHolders())),
				Inline: true,
			},
			{
				Name:   "Visible Until",
				Value:  common.FormatDiscordTimestamp(round.VisibleUntil, "f"),
				Inline: true,
			},
		},
	}

	if round.PublishedAt != nil {
		embed.Timestamp = round.PublishedAt.Format(time.RFC3339)
	}

	if round.Draw == nil || !round.Draw.HasWinners() {
		embed.Description = "No tickets were issued this round, so there are no winners."
		embed.Color = common.ColorWarning
		return embed
	}

	var lines []string
	for i, winner := range round.Draw.Winners {
		medal := ""
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", i+1)
		}
		lines = append(lines, fmt.Sprintf("%s **%s** - ticket #%d",
			medal, utils.MaskUsername(winner.Username), winner.TicketNumber))
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "🏆 Winners",
		Value: common.TruncateField(strings.Join(lines, "\n")),
	})

	if round.Draw.WithReplacement {
		embed.Description = "Fewer participants than winner slots; winners were drawn with replacement."
	}

	return embed
}
