package bot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gambizardonkick/Shuffle-Live-tracker/bot/features/bets"
	"github.com/gambizardonkick/Shuffle-Live-tracker/bot/features/raffle"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidWebhook = errors.New("invalid discord webhook url")

// WebhookExecutor posts messages to a Discord webhook. *discordgo.Session satisfies it.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// WebhookNotifier delivers tracker notifications as Discord webhook embeds
type WebhookNotifier struct {
	executor WebhookExecutor
	username string
}

// NewWebhookNotifier creates a notifier backed by a token-less discordgo session.
// Failed posts are dropped, so the session never retries.
func NewWebhookNotifier(username string) (*WebhookNotifier, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false
	return NewWebhookNotifierWithExecutor(session, username), nil
}

// NewWebhookNotifierWithExecutor creates a notifier posting through executor
func NewWebhookNotifierWithExecutor(executor WebhookExecutor, username string) *WebhookNotifier {
	return &WebhookNotifier{
		executor: executor,
		username: username,
	}
}

// NotifyBet posts a tracked bet with the bettor's current stats
func (n *WebhookNotifier) NotifyBet(ctx context.Context, webhookURL string, bet *entities.Bet, stats *entities.StatsView) error {
	return n.send(ctx, "bet", webhookURL, bets.BuildBetEmbed(bet, stats))
}

// NotifyStats posts a period summary
func (n *WebhookNotifier) NotifyStats(ctx context.Context, webhookURL string, report *entities.StatsReport) error {
	return n.send(ctx, "stats", webhookURL, bets.BuildStatsEmbed(report))
}

// NotifyDraw posts a published round's winners
func (n *WebhookNotifier) NotifyDraw(ctx context.Context, webhookURL string, round *entities.RaffleRound) error {
	return n.send(ctx, "draw", webhookURL, raffle.BuildDrawEmbed(round))
}

func (n *WebhookNotifier) send(ctx context.Context, kind, webhookURL string, embed *discordgo.MessageEmbed) error {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		observability.RecordNotification(kind, false)
		return err
	}

	params := &discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}
	_, err = n.executor.WebhookExecute(id, token, false, params,
		discordgo.WithContext(ctx),
		discordgo.WithRestRetries(0),
		discordgo.WithRetryOnRatelimit(false),
	)
	if err != nil {
		observability.RecordNotification(kind, false)
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}

	observability.RecordNotification(kind, true)
	log.WithFields(log.Fields{
		"kind":       kind,
		"webhook_id": id,
	}).Debug("Sent webhook notification")
	return nil
}

// ParseWebhookURL extracts the webhook id and token from
// https://discord.com/api/webhooks/{id}/{token}
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", "", fmt.Errorf("%w: must be an https url", ErrInvalidWebhook)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "webhooks" || parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: expected /api/webhooks/{id}/{token}", ErrInvalidWebhook)
	}
	return parts[2], parts[3], nil
}
