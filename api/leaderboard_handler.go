package api

import (
	"net/http"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// LeaderboardHandler serves cached leaderboards
type LeaderboardHandler struct {
	leaderboard LeaderboardReader
	now         func() time.Time
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboard LeaderboardReader, now func() time.Time) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		now:         now,
	}
}

// GetCurrent handles GET /leaderboard/current
func (h *LeaderboardHandler) GetCurrent(c *gin.Context) {
	c.JSON(http.StatusOK, h.leaderboard.Current(h.now()))
}

// GetCurrentEntries handles GET /leaderboard/top14 with only the ranked rows
func (h *LeaderboardHandler) GetCurrentEntries(c *gin.Context) {
	c.JSON(http.StatusOK, h.leaderboard.Current(h.now()).Entries)
}

// GetPrevious handles GET /leaderboard/prev. Without any cached board an empty list is served.
func (h *LeaderboardHandler) GetPrevious(c *gin.Context) {
	board, err := h.leaderboard.Previous(c.Request.Context(), h.now())
	if err != nil {
		log.WithError(err).Warn("Previous leaderboard unavailable")
		c.JSON(http.StatusOK, []entities.LeaderboardEntry{})
		return
	}
	c.JSON(http.StatusOK, board.Entries)
}
