package entities

import (
	"time"
)

// Winner is a single winning slot of a draw
type Winner struct {
	Username     string `json:"username"`
	TicketNumber int64  `json:"ticketNumber"`
}

// DrawResult is the immutable outcome of a round's draw.
// Usernames are stored raw; masking happens when results are served.
type DrawResult struct {
	RoundKey        string
	Winners         []Winner
	WithReplacement bool // true when fewer distinct users than winner slots existed
	TotalTickets    int
	DrawnAt         time.Time
	SourceSnapshot  *TicketLedger
}

// WinnerNames returns winner usernames in draw order
func (d *DrawResult) WinnerNames() []string {
	names := make([]string, len(d.Winners))
	for i, w := range d.Winners {
		names[i] = w.Username
	}
	return names
}

// HasWinners returns true if at least one slot was filled
func (d *DrawResult) HasWinners() bool {
	return len(d.Winners) > 0
}
