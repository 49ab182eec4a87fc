package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	Port          string
	AllowedOrigin string // CORS origin for browser clients

	// Logging
	LogLevel string

	// Affiliate API configuration
	AffiliateAPIURL        string
	AffiliateAPIKey        string
	AffiliateListPath      string // gjson path of the entry list
	AffiliateUsernameField string
	AffiliateWageredField  string
	FetchTimeout           time.Duration
	RefreshInterval        time.Duration

	// Window and raffle configuration
	PeriodAnchor      time.Time // First day of window 0, midnight UTC
	PeriodDays        int
	VisibleOffset     time.Duration // Added to a window's end to get when its round becomes visible; never positive
	TicketCost        decimal.Decimal
	MaxTicketsPerUser int // Larger wager figures are treated as malformed
	WinnerCount       int
	LeaderboardSize   int

	// Keep-alive configuration
	SelfURL           string // Disabled when empty
	KeepAliveInterval time.Duration

	// Bet tracking configuration
	DiscordWebhookURL string
	RaffleWebhookURL  string
	TrackedUser       string
	AdminPassword     string
	BetAuthToken      string
	BetRateLimit      float64 // Bets per second per client
	MaxStoredBets     int
	StatsReportCron   string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated); events are dropped when empty

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return load()
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// HTTP
		Port:          getEnvWithDefault("PORT", "3000"),
		AllowedOrigin: getEnvWithDefault("ALLOWED_ORIGIN", "*"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Affiliate API
		AffiliateAPIURL:        getEnvWithDefault("AFFILIATE_API_URL", "https://services.rainbet.com/v1/external/affiliates"),
		AffiliateAPIKey:        os.Getenv("AFFILIATE_API_KEY"),
		AffiliateListPath:      getEnvWithDefault("AFFILIATE_LIST_PATH", "affiliates"),
		AffiliateUsernameField: getEnvWithDefault("AFFILIATE_USERNAME_FIELD", "username"),
		AffiliateWageredField:  getEnvWithDefault("AFFILIATE_WAGERED_FIELD", "wagered_amount"),

		// Keep-alive
		SelfURL: os.Getenv("SELF_URL"),

		// Bet tracking
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		RaffleWebhookURL:  os.Getenv("RAFFLE_WEBHOOK_URL"),
		TrackedUser:       os.Getenv("TRACKED_USER"),
		AdminPassword:     getEnvWithDefault("ADMIN_PASSWORD", "admin123"),
		BetAuthToken:      os.Getenv("BET_AUTH_TOKEN"),
		StatsReportCron:   getEnvWithDefault("STATS_REPORT_CRON", "5 0 * * *"),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	var err error
	if config.FetchTimeout, err = getDurationWithDefault("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.RefreshInterval, err = getDurationWithDefault("REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.VisibleOffset, err = getDurationWithDefault("VISIBLE_OFFSET", 0); err != nil {
		return nil, err
	}
	if config.KeepAliveInterval, err = getDurationWithDefault("KEEPALIVE_INTERVAL", 270*time.Second); err != nil {
		return nil, err
	}
	if config.PeriodDays, err = getIntWithDefault("PERIOD_DAYS", 14); err != nil {
		return nil, err
	}
	if config.MaxTicketsPerUser, err = getIntWithDefault("MAX_TICKETS_PER_USER", 1000000); err != nil {
		return nil, err
	}
	if config.WinnerCount, err = getIntWithDefault("WINNER_COUNT", 3); err != nil {
		return nil, err
	}
	if config.LeaderboardSize, err = getIntWithDefault("LEADERBOARD_SIZE", 10); err != nil {
		return nil, err
	}
	if config.MaxStoredBets, err = getIntWithDefault("MAX_STORED_BETS", 100000); err != nil {
		return nil, err
	}

	anchor := getEnvWithDefault("PERIOD_ANCHOR", "2025-08-11")
	if config.PeriodAnchor, err = time.Parse("2006-01-02", anchor); err != nil {
		return nil, fmt.Errorf("invalid PERIOD_ANCHOR %q: %w", anchor, err)
	}

	cost := getEnvWithDefault("TICKET_COST", "100")
	if config.TicketCost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("invalid TICKET_COST %q: %w", cost, err)
	}

	rateLimit := getEnvWithDefault("BET_RATE_LIMIT", "20")
	if config.BetRateLimit, err = strconv.ParseFloat(rateLimit, 64); err != nil {
		return nil, fmt.Errorf("invalid BET_RATE_LIMIT %q: %w", rateLimit, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.PeriodDays < 1 {
		return fmt.Errorf("PERIOD_DAYS must be positive, got %d", c.PeriodDays)
	}
	if !c.TicketCost.IsPositive() {
		return fmt.Errorf("TICKET_COST must be positive, got %s", c.TicketCost)
	}
	if c.MaxTicketsPerUser < 1 {
		return fmt.Errorf("MAX_TICKETS_PER_USER must be positive, got %d", c.MaxTicketsPerUser)
	}
	period := time.Duration(c.PeriodDays) * 24 * time.Hour
	if c.VisibleOffset > 0 || c.VisibleOffset <= -period {
		return fmt.Errorf("VISIBLE_OFFSET must be within (-%s, 0], got %s", period, c.VisibleOffset)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	if c.KeepAliveInterval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive, got %s", c.KeepAliveInterval)
	}
	if c.WinnerCount < 1 {
		return fmt.Errorf("WINNER_COUNT must be positive, got %d", c.WinnerCount)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("LEADERBOARD_SIZE must be positive, got %d", c.LeaderboardSize)
	}
	if c.BetRateLimit <= 0 {
		return fmt.Errorf("BET_RATE_LIMIT must be positive, got %v", c.BetRateLimit)
	}

	if c.Environment != "test" {
		// Validate required configuration
		if c.AffiliateAPIKey == "" {
			return fmt.Errorf("AFFILIATE_API_KEY is required")
		}
	}
	return nil
}

// IsProduction reports whether logs should be structured JSON
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NATSServerList splits NATSServers on commas
func (c *Config) NATSServerList() []string {
	var servers []string
	for _, server := range strings.Split(c.NATSServers, ",") {
		if server = strings.TrimSpace(server); server != "" {
			servers = append(servers, server)
		}
	}
	return servers
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Port:              "0",
		AllowedOrigin:     "*",
		LogLevel:          "debug",
		AffiliateAPIURL:   "http://localhost/affiliates",
		AffiliateListPath: "affiliates",
		FetchTimeout:      time.Second,
		RefreshInterval:   time.Minute,
		KeepAliveInterval: time.Minute,
		PeriodAnchor:      time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC),
		PeriodDays:        14,
		TicketCost:        decimal.NewFromInt(100),
		MaxTicketsPerUser: 1000000,
		WinnerCount:       3,
		LeaderboardSize:   10,
		AdminPassword:     "admin123",
		BetAuthToken:      "test-token",
		BetRateLimit:      20,
		MaxStoredBets:     1000,
		StatsReportCron:   "5 0 * * *",
		Environment:       "test",
	}
}
