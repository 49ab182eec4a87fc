package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	log "github.com/sirupsen/logrus"
)

// DiscordWebhookPrefix is the required prefix of tracked-user webhook URLs
const DiscordWebhookPrefix = "https://discord.com/api/webhooks/"

const notificationTimeout = 10 * time.Second

var (
	ErrUnauthorized      = errors.New("invalid admin password")
	ErrUsernameRequired  = errors.New("username is required")
	ErrInvalidWebhookURL = errors.New("valid Discord webhook URL required")
	ErrNoWebhook         = errors.New("no webhook configured")
)

// BetTrackerConfig holds the bet tracker settings
type BetTrackerConfig struct {
	AdminPassword     string
	MaxStoredBets     int
	DefaultUser       string // tracked from startup when set
	DefaultWebhookURL string // webhook of DefaultUser and of global stats reports
}

// TrackResult describes how an ingested bet was handled
type TrackResult struct {
	Duplicate bool
	Tracked   bool
}

// BetTrackerService ingests scraped bets, aggregates per-user stats and forwards
// tracked users' bets to their webhooks
type BetTrackerService struct {
	sink      interfaces.NotificationSink
	publisher interfaces.EventPublisher
	config    BetTrackerConfig

	mu          sync.RWMutex
	bets        []*entities.Bet
	seen        map[string]struct{}
	users       map[string]*entities.UserStats
	global      *entities.UserStats
	tracked     map[string]*entities.TrackedUser
	trackedBets map[string][]*entities.Bet

	notifications sync.WaitGroup
}

// NewBetTrackerService creates a bet tracker. now is used as the tracking start of the default user.
func NewBetTrackerService(
	sink interfaces.NotificationSink,
	publisher interfaces.EventPublisher,
	config BetTrackerConfig,
	now time.Time,
) *BetTrackerService {
	s := &BetTrackerService{
		sink:        sink,
		publisher:   publisher,
		config:      config,
		seen:        make(map[string]struct{}),
		users:       make(map[string]*entities.UserStats),
		global:      entities.NewUserStats(""),
		tracked:     make(map[string]*entities.TrackedUser),
		trackedBets: make(map[string][]*entities.Bet),
	}

	if config.DefaultUser != "" {
		s.tracked[config.DefaultUser] = &entities.TrackedUser{
			Username:      config.DefaultUser,
			WebhookURL:    config.DefaultWebhookURL,
			TrackingSince: now,
		}
	}
	return s
}

// Track stores a bet and updates stats before any notification is sent, so the
// notification for a tracked user already includes the bet. Bets repeating a known
// bet ID are ignored.
func (s *BetTrackerService) Track(ctx context.Context, bet *entities.Bet) (TrackResult, error) {
	if err := bet.Validate(); err != nil {
		return TrackResult{}, err
	}

	stored := *bet
	stored.Username = strings.TrimSpace(stored.Username)
	if stored.ReceivedAt.IsZero() {
		stored.ReceivedAt = time.Now().UTC()
	}

	s.mu.Lock()
	if stored.BetID != "" {
		if _, dup := s.seen[stored.BetID]; dup {
			s.mu.Unlock()
			return TrackResult{Duplicate: true}, nil
		}
		s.seen[stored.BetID] = struct{}{}
	}

	s.bets = append(s.bets, &stored)
	s.trimLocked()

	userStats, ok := s.users[stored.Username]
	if !ok {
		userStats = entities.NewUserStats(stored.Username)
		s.users[stored.Username] = userStats
	}
	userStats.Apply(&stored)
	s.global.Apply(&stored)

	var result TrackResult
	var webhookURL string
	var view *entities.StatsView
	if tracked, ok := s.tracked[stored.Username]; ok {
		result.Tracked = true
		s.trackedBets[stored.Username] = append(s.trackedBets[stored.Username], &stored)
		if tracked.HasWebhook() {
			webhookURL = tracked.WebhookURL
			view = userStats.View(stored.PlacedAt())
		}
	}
	s.mu.Unlock()

	s.publish(events.BetTrackedEvent{
		BetID:     stored.BetID,
		Username:  stored.Username,
		Game:      stored.Game,
		AmountUSD: stored.BetAmountUSD.String(),
		PayoutUSD: stored.PayoutUSD.String(),
		Won:       stored.Won(),
		Tracked:   result.Tracked,
		PlacedAt:  stored.PlacedAt(),
	})

	if webhookURL != "" {
		s.notifyAsync(ctx, func(ctx context.Context) error {
			return s.sink.NotifyBet(ctx, webhookURL, &stored, view)
		}, log.Fields{"username": stored.Username, "bet_id": stored.BetID})
	}

	return result, nil
}

// Bets returns stored bets newest first, optionally filtered by username.
// A non-positive limit returns every match.
func (s *BetTrackerService) Bets(limit int, username string) []*entities.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Bet, 0)
	for i := len(s.bets) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if username != "" && s.bets[i].Username != username {
			continue
		}
		result = append(result, s.bets[i])
	}
	return result
}

// Users lists every bettor seen, by total wagered descending
func (s *BetTrackerService) Users() []entities.UserSummary {
	s.mu.RLock()
	summaries := make([]entities.UserSummary, 0, len(s.users))
	for _, stats := range s.users {
		summaries = append(summaries, entities.UserSummary{
			Username:        stats.Username,
			TotalBets:       stats.TotalBets,
			TotalWageredUSD: stats.TotalWageredUSD,
			TotalProfitUSD:  stats.TotalProfitUSD,
		})
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if c := summaries[i].TotalWageredUSD.Cmp(summaries[j].TotalWageredUSD); c != 0 {
			return c > 0
		}
		return summaries[i].Username < summaries[j].Username
	})
	return summaries
}

// UserStats returns username's stats for the periods containing at
func (s *BetTrackerService) UserStats(username string, at time.Time) *entities.StatsView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stats, ok := s.users[username]; ok {
		return stats.View(at)
	}
	return &entities.StatsView{
		Daily:   entities.NewPeriodStats(),
		Weekly:  entities.NewPeriodStats(),
		Monthly: entities.NewPeriodStats(),
	}
}

// PeriodStats returns the bucket containing at for username, or across all users when username is empty
func (s *BetTrackerService) PeriodStats(period entities.StatsPeriod, username string, at time.Time) *entities.PeriodStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if username == "" {
		return s.global.Period(period, at)
	}
	if stats, ok := s.users[username]; ok {
		return stats.Period(period, at)
	}
	return entities.NewPeriodStats()
}

// SendStats posts a period summary to the tracked user's webhook, or the global summary
// to the default webhook when username is empty
func (s *BetTrackerService) SendStats(ctx context.Context, period entities.StatsPeriod, username string, at time.Time) error {
	webhookURL := s.config.DefaultWebhookURL
	if username != "" {
		s.mu.RLock()
		tracked, ok := s.tracked[username]
		s.mu.RUnlock()
		if !ok || !tracked.HasWebhook() {
			return fmt.Errorf("%w for %s", ErrNoWebhook, username)
		}
		webhookURL = tracked.WebhookURL
	}
	if webhookURL == "" {
		return ErrNoWebhook
	}

	report := &entities.StatsReport{
		Username: username,
		Period:   period,
		Key:      period.Key(at),
		Stats:    s.PeriodStats(period, username, at),
	}
	if err := s.sink.NotifyStats(ctx, webhookURL, report); err != nil {
		return fmt.Errorf("failed to send %s stats: %w", period, err)
	}
	return nil
}

// ReportTrackedUsers sends every tracked user with a webhook their stats for the period containing at.
// Failures are logged per user and do not stop the remaining reports.
func (s *BetTrackerService) ReportTrackedUsers(ctx context.Context, period entities.StatsPeriod, at time.Time) int {
	s.mu.RLock()
	var usernames []string
	for username, user := range s.tracked {
		if user.HasWebhook() {
			usernames = append(usernames, username)
		}
	}
	s.mu.RUnlock()
	sort.Strings(usernames)

	sent := 0
	for _, username := range usernames {
		if err := s.SendStats(ctx, period, username, at); err != nil {
			log.WithError(err).WithField("username", username).Error("Failed to send stats report")
			continue
		}
		sent++
	}
	return sent
}

// VerifyAdmin checks the admin password
func (s *BetTrackerService) VerifyAdmin(password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// TrackUser starts or updates permanent tracking of username
func (s *BetTrackerService) TrackUser(password, username, webhookURL string, now time.Time) error {
	if err := s.VerifyAdmin(password); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if !strings.HasPrefix(webhookURL, DiscordWebhookPrefix) {
		return ErrInvalidWebhookURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	since := now
	if existing, ok := s.tracked[username]; ok {
		since = existing.TrackingSince
	}
	s.tracked[username] = &entities.TrackedUser{
		Username:      username,
		WebhookURL:    webhookURL,
		TrackingSince: since,
	}

	log.WithField("username", username).Info("Tracking user")
	return nil
}

// UntrackUser stops tracking username. Its stored history is kept.
func (s *BetTrackerService) UntrackUser(password, username string) error {
	if err := s.VerifyAdmin(password); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.tracked, username)
	s.mu.Unlock()

	log.WithField("username", username).Info("Stopped tracking user")
	return nil
}

// TrackedUsers lists tracked users by username with masked webhooks
func (s *BetTrackerService) TrackedUsers() []entities.TrackedUserSummary {
	s.mu.RLock()
	summaries := make([]entities.TrackedUserSummary, 0, len(s.tracked))
	for _, user := range s.tracked {
		summaries = append(summaries, entities.TrackedUserSummary{
			Username:      user.Username,
			TotalBets:     len(s.trackedBets[user.Username]),
			WebhookURL:    utils.MaskWebhookURL(user.WebhookURL),
			TrackingSince: user.TrackingSince,
		})
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Username < summaries[j].Username })
	return summaries
}

// TrackedUserBets returns the permanent history of username, newest first
func (s *BetTrackerService) TrackedUserBets(username string) *entities.TrackedUserBets {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.trackedBets[username]
	result := &entities.TrackedUserBets{
		Username:  username,
		TotalBets: len(history),
		Bets:      make([]*entities.Bet, 0, len(history)),
	}
	if tracked, ok := s.tracked[username]; ok {
		result.TrackingSince = tracked.TrackingSince
	}
	for i := len(history) - 1; i >= 0; i-- {
		result.Bets = append(result.Bets, history[i])
	}
	return result
}

// Wait blocks until in-flight notifications finish
func (s *BetTrackerService) Wait() {
	s.notifications.Wait()
}

// trimLocked drops the oldest half of the log once it exceeds the configured maximum
func (s *BetTrackerService) trimLocked() {
	if s.config.MaxStoredBets <= 0 || len(s.bets) <= s.config.MaxStoredBets {
		return
	}

	drop := len(s.bets) / 2
	for _, bet := range s.bets[:drop] {
		if bet.BetID != "" {
			delete(s.seen, bet.BetID)
		}
	}
	s.bets = append([]*entities.Bet(nil), s.bets[drop:]...)

	log.WithFields(log.Fields{
		"dropped": drop,
		"kept":    len(s.bets),
	}).Info("Trimmed bet log")
}

func (s *BetTrackerService) notifyAsync(ctx context.Context, notify func(context.Context) error, fields log.Fields) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
		defer cancel()

		if err := notify(ctx); err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to send bet notification")
			return
		}
		log.WithFields(fields).Debug("Sent bet notification")
	}()
}

func (s *BetTrackerService) publish(event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		log.WithError(err).WithField("event_type", event.Type()).Error("Failed to publish bet event")
	}
}
