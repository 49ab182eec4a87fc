package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/api"
	"github.com/gambizardonkick/Shuffle-Live-tracker/application"
	"github.com/gambizardonkick/Shuffle-Live-tracker/bot"
	"github.com/gambizardonkick/Shuffle-Live-tracker/config"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/services"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"
	"github.com/gambizardonkick/Shuffle-Live-tracker/infrastructure"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	serviceName     = "shuffle-live-tracker"
	webhookUsername = "Shuffle Live Tracker"
	shutdownTimeout = 10 * time.Second
)

// ConfigureLogging applies the configured level and formatter to logrus
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// NewScheduler builds the round scheduler from configuration
func NewScheduler(cfg *config.Config) (*services.RoundScheduler, error) {
	return services.NewRoundScheduler(cfg.PeriodAnchor, cfg.PeriodDays, cfg.VisibleOffset)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting Shuffle live tracker...")

	// Initialize event publishing
	publisher, closeEvents, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEvents()

	// Initialize raffle domain
	scheduler, err := NewScheduler(cfg)
	if err != nil {
		return fmt.Errorf("failed to create round scheduler: %w", err)
	}
	rng := utils.NewCryptoRandom()
	accrual, err := services.NewAccrualEngine(cfg.TicketCost, cfg.MaxTicketsPerUser, rng)
	if err != nil {
		return fmt.Errorf("failed to create accrual engine: %w", err)
	}
	raffleService := services.NewRaffleService(scheduler, accrual, services.NewDrawEngine(rng), cfg.WinnerCount, publisher)

	// Initialize affiliate snapshot source
	transport, err := infrastructure.NewTLSTransport(cfg.FetchTimeout)
	if err != nil {
		return fmt.Errorf("failed to create http transport: %w", err)
	}
	normalizer := infrastructure.NewPayloadNormalizer(cfg.AffiliateListPath, cfg.AffiliateUsernameField, cfg.AffiliateWageredField)
	affiliateClient := infrastructure.NewAffiliateClient(transport, cfg.AffiliateAPIURL, cfg.AffiliateAPIKey, normalizer)
	leaderboardService := services.NewLeaderboardService(affiliateClient, scheduler, cfg.LeaderboardSize, publisher)

	// Initialize notifications and bet tracking
	notifier, err := bot.NewWebhookNotifier(webhookUsername)
	if err != nil {
		return fmt.Errorf("failed to create webhook notifier: %w", err)
	}
	betTracker := services.NewBetTrackerService(notifier, publisher, services.BetTrackerConfig{
		AdminPassword:     cfg.AdminPassword,
		MaxStoredBets:     cfg.MaxStoredBets,
		DefaultUser:       cfg.TrackedUser,
		DefaultWebhookURL: cfg.DiscordWebhookURL,
	}, time.Now().UTC())
	if cfg.BetAuthToken == "" {
		log.Warn("BET_AUTH_TOKEN is not set; bet ingestion will reject every request")
	}

	// Start background workers
	refreshWorker := application.NewRefreshWorker(affiliateClient, raffleService, leaderboardService, scheduler, notifier, application.RefreshWorkerConfig{
		Interval:         cfg.RefreshInterval,
		FetchTimeout:     cfg.FetchTimeout,
		RaffleWebhookURL: cfg.RaffleWebhookURL,
	})
	stopRefresh := refreshWorker.Start(ctx)
	defer stopRefresh()

	statsWorker, err := application.NewStatsReportWorker(betTracker, cfg.StatsReportCron)
	if err != nil {
		return err
	}
	stopStats := statsWorker.Start(ctx)
	defer stopStats()

	if cfg.SelfURL != "" {
		keepAlive := application.NewKeepAliveWorker(transport, cfg.SelfURL, cfg.KeepAliveInterval, cfg.FetchTimeout)
		stopKeepAlive := keepAlive.Start(ctx)
		defer stopKeepAlive()
	} else {
		log.Info("SELF_URL not set, keep-alive disabled")
	}

	// Start HTTP server
	router, limiter := api.NewRouter(api.Dependencies{
		Raffle:      raffleService,
		Leaderboard: leaderboardService,
		Bets:        betTracker,
	}, api.RouterConfig{
		AllowedOrigin: cfg.AllowedOrigin,
		BetAuthToken:  cfg.BetAuthToken,
		BetRateLimit:  cfg.BetRateLimit,
	})
	limiter.StartCleanup(ctx, time.Minute)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	log.Infof("Tracker is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("Shutting down tracker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}
	betTracker.Wait()

	log.Info("Shutdown completed")
	return nil
}

// newEventPublisher connects to NATS when configured and falls back to dropping events
func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	servers := cfg.NATSServerList()
	if len(servers) == 0 {
		log.Info("NATS_SERVERS not set, domain events will not be published")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
	client := infrastructure.NewNATSClient(strings.Join(servers, ","), serviceName)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := infrastructure.EnsureEventStream(client, mapper); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}
	log.Info("NATS event stream ready")

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	return infrastructure.NewNATSEventPublisher(client, mapper, serviceName), closeFn, nil
}
