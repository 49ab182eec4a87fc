package api

import (
	"net/http"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/infrastructure/observability"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds HTTP surface settings
type RouterConfig struct {
	AllowedOrigin string
	BetAuthToken  string
	BetRateLimit  float64 // bets per second per client
	Now           func() time.Time
}

// Dependencies are the services served over HTTP
type Dependencies struct {
	Raffle      RaffleReader
	Leaderboard LeaderboardReader
	Bets        BetTracker
}

// NewRouter builds the gin engine with every public and protected route.
// The returned limiter should be pruned periodically with StartCleanup.
func NewRouter(deps Dependencies, config RouterConfig) (*gin.Engine, *RateLimiter) {
	now := config.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(config.AllowedOrigin))

	leaderboardHandler := NewLeaderboardHandler(deps.Leaderboard, now)
	raffleHandler := NewRaffleHandler(deps.Raffle, now)
	betHandler := NewBetHandler(deps.Bets, now)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	leaderboard := router.Group("/leaderboard")
	{
		leaderboard.GET("/current", leaderboardHandler.GetCurrent)
		leaderboard.GET("/top14", leaderboardHandler.GetCurrentEntries)
		leaderboard.GET("/prev", leaderboardHandler.GetPrevious)
	}

	raffle := router.Group("/raffle")
	{
		raffle.GET("/tickets", raffleHandler.GetTickets)
		raffle.GET("/published", raffleHandler.GetPublished)
		raffle.GET("/winners", raffleHandler.GetWinners)
		raffle.GET("/user/:username", raffleHandler.GetUserTickets)
		raffle.GET("/rounds", raffleHandler.GetRounds)
	}

	limiter := NewRateLimiter(config.BetRateLimit, int(config.BetRateLimit))

	api := router.Group("/api")
	{
		api.POST("/bet", limiter.Middleware(), TokenAuthMiddleware(config.BetAuthToken), betHandler.PostBet)
		api.GET("/bets", betHandler.GetBets)
		api.GET("/users", betHandler.GetUsers)
		api.GET("/user/:username/stats", betHandler.GetUserStats)
		api.GET("/stats/:period", betHandler.GetPeriodStats)
		api.POST("/stats/:period/send", betHandler.SendPeriodStats)

		api.GET("/tracked-users", betHandler.GetTrackedUsers)
		api.POST("/tracked-users", betHandler.PostTrackedUser)
		api.DELETE("/tracked-users/:username", betHandler.DeleteTrackedUser)
		api.GET("/tracked-users/:username/bets", betHandler.GetTrackedUserBets)
		api.POST("/admin/verify", betHandler.PostVerifyAdmin)
	}

	return router, limiter
}
