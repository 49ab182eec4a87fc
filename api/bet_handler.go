package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/services"
	"github.com/gambizardonkick/Shuffle-Live-tracker/infrastructure/observability"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const defaultBetsLimit = 50

// TrackUserRequest is the body of POST /api/tracked-users
type TrackUserRequest struct {
	Username   string `json:"username"`
	WebhookURL string `json:"webhookUrl"`
	Password   string `json:"password"`
}

// AdminRequest carries the admin password
type AdminRequest struct {
	Password string `json:"password"`
}

// PeriodStatsResponse is a single period summary
type PeriodStatsResponse struct {
	Period   entities.StatsPeriod  `json:"period"`
	Key      string                `json:"key"`
	Username string                `json:"username,omitempty"`
	Stats    *entities.PeriodStats `json:"stats"`
}

// BetHandler serves bet ingestion, stats and tracked-user management
type BetHandler struct {
	tracker BetTracker
	now     func() time.Time
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(tracker BetTracker, now func() time.Time) *BetHandler {
	return &BetHandler{
		tracker: tracker,
		now:     now,
	}
}

// PostBet handles POST /api/bet
func (h *BetHandler) PostBet(c *gin.Context) {
	var bet entities.Bet
	if err := c.ShouldBindJSON(&bet); err != nil {
		observability.RecordBet("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet payload: " + err.Error()})
		return
	}
	bet.ReceivedAt = h.now()

	result, err := h.tracker.Track(c.Request.Context(), &bet)
	if err != nil {
		observability.RecordBet("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if result.Duplicate {
		observability.RecordBet("duplicate")
	} else {
		observability.RecordBet("accepted")
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"duplicate": result.Duplicate,
		"tracked":   result.Tracked,
	})
}

// GetBets handles GET /api/bets?limit=&username=
func (h *BetHandler) GetBets(c *gin.Context) {
	limit := defaultBetsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, h.tracker.Bets(limit, strings.TrimSpace(c.Query("username"))))
}

// GetUsers handles GET /api/users
func (h *BetHandler) GetUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Users())
}

// GetUserStats handles GET /api/user/:username/stats. Unknown users get empty buckets.
func (h *BetHandler) GetUserStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.UserStats(c.Param("username"), h.now()))
}

// GetPeriodStats handles GET /api/stats/:period?username=
func (h *BetHandler) GetPeriodStats(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	now := h.now()
	username := strings.TrimSpace(c.Query("username"))
	c.JSON(http.StatusOK, PeriodStatsResponse{
		Period:   period,
		Key:      period.Key(now),
		Username: username,
		Stats:    h.tracker.PeriodStats(period, username, now),
	})
}

// SendPeriodStats handles POST /api/stats/:period/send?username=
func (h *BetHandler) SendPeriodStats(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	username := strings.TrimSpace(c.Query("username"))
	err := h.tracker.SendStats(c.Request.Context(), period, username, h.now())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": string(period) + " stats sent"})
	case errors.Is(err, services.ErrNoWebhook):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("period", period).Error("Failed to send stats")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send stats"})
	}
}

// GetTrackedUsers handles GET /api/tracked-users
func (h *BetHandler) GetTrackedUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.TrackedUsers())
}

// PostTrackedUser handles POST /api/tracked-users
func (h *BetHandler) PostTrackedUser(c *gin.Context) {
	var request TrackUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.tracker.TrackUser(request.Password, request.Username, strings.TrimSpace(request.WebhookURL), h.now())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Now tracking " + strings.TrimSpace(request.Username)})
}

// DeleteTrackedUser handles DELETE /api/tracked-users/:username
func (h *BetHandler) DeleteTrackedUser(c *gin.Context) {
	var request AdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.Param("username")
	if err := h.tracker.UntrackUser(request.Password, username); err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stopped tracking " + username})
}

// GetTrackedUserBets handles GET /api/tracked-users/:username/bets
func (h *BetHandler) GetTrackedUserBets(c *gin.Context) {
	history := h.tracker.TrackedUserBets(c.Param("username"))
	if history == nil || (history.TotalBets == 0 && history.TrackingSince.IsZero()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not tracked"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// PostVerifyAdmin handles POST /api/admin/verify
func (h *BetHandler) PostVerifyAdmin(c *gin.Context) {
	var request AdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.tracker.VerifyAdmin(request.Password); err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parsePeriod(c *gin.Context) (entities.StatsPeriod, bool) {
	period, err := entities.ParseStatsPeriod(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period. Use daily, weekly, or monthly"})
		return "", false
	}
	return period, true
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	case errors.Is(err, services.ErrUsernameRequired), errors.Is(err, services.ErrInvalidWebhookURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
