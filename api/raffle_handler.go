package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	"github.com/gin-gonic/gin"
)

// TicketResponse is one publicly listed ticket
type TicketResponse struct {
	TicketNumber int64  `json:"ticketNumber"`
	Username     string `json:"username"`
}

// HolderResponse is one user's holdings with a masked name
type HolderResponse struct {
	Username    string  `json:"username"`
	Tickets     []int64 `json:"tickets"`
	TicketCount int     `json:"ticketCount"`
}

// RoundTicketsResponse lists a round's tickets
type RoundTicketsResponse struct {
	RoundKey     string               `json:"roundKey"`
	Start        string               `json:"start"`
	End          string               `json:"end"`
	State        entities.RoundState  `json:"state"`
	Published    bool                 `json:"published"`
	PublishedAt  *time.Time           `json:"publishedAt,omitempty"`
	VisibleFrom  time.Time            `json:"visibleFrom"`
	VisibleUntil time.Time            `json:"visibleUntil"`
	TotalTickets int                  `json:"totalTickets"`
	Tickets      []TicketResponse     `json:"tickets"`
	Holders      []HolderResponse     `json:"holders"`
	Winners      []WinnerNameResponse `json:"winners,omitempty"`
}

// WinnerNameResponse is a masked winner
type WinnerNameResponse struct {
	Username string `json:"username"`
}

// RoundWinnersResponse is a round's masked winners
type RoundWinnersResponse struct {
	RoundKey        string               `json:"roundKey"`
	Winners         []WinnerNameResponse `json:"winners"`
	WithReplacement bool                 `json:"withReplacement"`
	DrawnAt         time.Time            `json:"drawnAt"`
}

// UserTicketsResponse is a single user's ticket lookup
type UserTicketsResponse struct {
	RoundKey      string  `json:"roundKey"`
	Username      string  `json:"username"`
	Tickets       int     `json:"tickets"`
	TicketNumbers []int64 `json:"ticketNumbers"`
}

// ArchivedRoundResponse summarizes a closed round
type ArchivedRoundResponse struct {
	RoundKey     string               `json:"roundKey"`
	Start        string               `json:"start"`
	End          string               `json:"end"`
	TotalTickets int                  `json:"totalTickets"`
	Participants int                  `json:"participants"`
	Winners      []WinnerNameResponse `json:"winners"`
	ArchivedAt   *time.Time           `json:"archivedAt"`
}

// RaffleHandler serves the raffle endpoints
type RaffleHandler struct {
	raffle RaffleReader
	now    func() time.Time
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffle RaffleReader, now func() time.Time) *RaffleHandler {
	return &RaffleHandler{
		raffle: raffle,
		now:    now,
	}
}

// GetTickets handles GET /raffle/tickets with the live tickets of the accruing round
func (h *RaffleHandler) GetTickets(c *gin.Context) {
	round := h.raffle.CurrentRound()
	if round == nil {
		c.JSON(http.StatusOK, emptyRoundTickets())
		return
	}
	c.JSON(http.StatusOK, h.buildRoundTickets(round, round.Ledger))
}

// GetPublished handles GET /raffle/published with the frozen tickets of the visible round
func (h *RaffleHandler) GetPublished(c *gin.Context) {
	round := h.raffle.VisibleRound()
	if round == nil {
		c.JSON(http.StatusOK, emptyRoundTickets())
		return
	}

	response := h.buildRoundTickets(round, round.Tickets())
	if round.Draw != nil {
		response.Winners = maskWinners(round.Draw)
	}
	c.JSON(http.StatusOK, response)
}

// GetWinners handles GET /raffle/winners, newest round first
func (h *RaffleHandler) GetWinners(c *gin.Context) {
	results := h.raffle.DrawResults()
	response := make([]RoundWinnersResponse, 0, len(results))
	for _, draw := range results {
		response = append(response, RoundWinnersResponse{
			RoundKey:        draw.RoundKey,
			Winners:         maskWinners(draw),
			WithReplacement: draw.WithReplacement,
			DrawnAt:         draw.DrawnAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// GetUserTickets handles GET /raffle/user/:username. Lookup uses the raw name; the response is masked.
func (h *RaffleHandler) GetUserTickets(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	holding := h.raffle.UserTickets(username)
	response := UserTicketsResponse{
		Username:      utils.MaskUsername(username),
		Tickets:       holding.TicketCount,
		TicketNumbers: holding.TicketNumbers,
	}
	if round := h.raffle.CurrentRound(); round != nil {
		response.RoundKey = round.Key
	}
	c.JSON(http.StatusOK, response)
}

// GetRounds handles GET /raffle/rounds with archived rounds, newest first
func (h *RaffleHandler) GetRounds(c *gin.Context) {
	rounds := h.raffle.ArchivedRounds()
	response := make([]ArchivedRoundResponse, 0, len(rounds))
	for _, round := range rounds {
		tickets := round.Tickets()
		item := ArchivedRoundResponse{
			RoundKey:     round.Key,
			Start:        round.Window.StartDate(),
			End:          round.Window.EndDate(),
			TotalTickets: tickets.TotalTickets(),
			Participants: tickets.DistinctHolders(),
			Winners:      []WinnerNameResponse{},
			ArchivedAt:   round.ArchivedAt,
		}
		if round.Draw != nil {
			item.Winners = maskWinners(round.Draw)
		}
		response = append(response, item)
	}
	c.JSON(http.StatusOK, response)
}

func (h *RaffleHandler) buildRoundTickets(round *entities.RaffleRound, ledger *entities.TicketLedger) RoundTicketsResponse {
	entries := ledger.Entries()
	tickets := make([]TicketResponse, len(entries))
	for i, entry := range entries {
		tickets[i] = TicketResponse{
			TicketNumber: entry.TicketNumber,
			Username:     utils.MaskUsername(entry.Username),
		}
	}

	holdings := ledger.Holdings()
	holders := make([]HolderResponse, len(holdings))
	for i, holding := range holdings {
		holders[i] = HolderResponse{
			Username:    utils.MaskUsername(holding.Username),
			Tickets:     holding.TicketNumbers,
			TicketCount: holding.TicketCount,
		}
	}

	return RoundTicketsResponse{
		RoundKey:     round.Key,
		Start:        round.Window.StartDate(),
		End:          round.Window.EndDate(),
		State:        round.StateAt(h.now()),
		Published:    round.Published,
		PublishedAt:  round.PublishedAt,
		VisibleFrom:  round.VisibleFrom,
		VisibleUntil: round.VisibleUntil,
		TotalTickets: len(tickets),
		Tickets:      tickets,
		Holders:      holders,
	}
}

func emptyRoundTickets() RoundTicketsResponse {
	return RoundTicketsResponse{
		Tickets: []TicketResponse{},
		Holders: []HolderResponse{},
	}
}

func maskWinners(draw *entities.DrawResult) []WinnerNameResponse {
	winners := make([]WinnerNameResponse, len(draw.Winners))
	for i, winner := range draw.Winners {
		winners[i] = WinnerNameResponse{Username: utils.MaskUsername(winner.Username)}
	}
	return winners
}
