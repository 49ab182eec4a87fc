package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TicketLedger maps each user's cumulative wager to a growing list of numbered tickets.
// Ticket numbers are unique within the ledger and issued from a single counter.
type TicketLedger struct {
	TicketsByUser    map[string][]int64
	LastSeenWagered  map[string]decimal.Decimal
	NextTicketNumber int64

	// users in order of first appearance
	order []string
}

// TicketEntry is a single issued ticket
type TicketEntry struct {
	TicketNumber int64  `json:"ticketNumber"`
	Username     string `json:"username"`
}

// UserTickets summarizes one user's holdings
type UserTickets struct {
	Username      string  `json:"username"`
	TicketNumbers []int64 `json:"tickets"`
	TicketCount   int     `json:"ticketCount"`
}

// NewTicketLedger creates an empty ledger whose first ticket is number 1
func NewTicketLedger() *TicketLedger {
	return &TicketLedger{
		TicketsByUser:    make(map[string][]int64),
		LastSeenWagered:  make(map[string]decimal.Decimal),
		NextTicketNumber: 1,
	}
}

// TicketCount returns the number of tickets held by username
func (l *TicketLedger) TicketCount(username string) int {
	return len(l.TicketsByUser[username])
}

// TotalTickets returns the number of tickets issued so far
func (l *TicketLedger) TotalTickets() int {
	return int(l.NextTicketNumber - 1)
}

// IsEmpty returns true if no ticket has been issued yet
func (l *TicketLedger) IsEmpty() bool {
	return l.TotalTickets() == 0
}

// Users returns every known user in order of first appearance
func (l *TicketLedger) Users() []string {
	users := make([]string, len(l.order))
	copy(users, l.order)
	return users
}

// DistinctHolders returns the number of users holding at least one ticket
func (l *TicketLedger) DistinctHolders() int {
	count := 0
	for _, tickets := range l.TicketsByUser {
		if len(tickets) > 0 {
			count++
		}
	}
	return count
}

// ObserveWager records the latest cumulative wager reported for username
func (l *TicketLedger) ObserveWager(username string, amount decimal.Decimal) {
	l.track(username)
	l.LastSeenWagered[username] = amount
}

// Issue appends count tickets for username, numbered from the shared counter
func (l *TicketLedger) Issue(username string, count int) []int64 {
	l.track(username)
	issued := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		issued = append(issued, l.NextTicketNumber)
		l.NextTicketNumber++
	}
	l.TicketsByUser[username] = append(l.TicketsByUser[username], issued...)
	return issued
}

// PermuteNumbers reassigns the issued numbers 1..K with a uniform random permutation.
// intn must return a uniform value in [0, n).
func (l *TicketLedger) PermuteNumbers(intn func(n int) int) {
	total := l.TotalTickets()
	if total < 2 {
		return
	}

	numbers := make([]int64, total)
	for i := range numbers {
		numbers[i] = int64(i + 1)
	}
	for i := total - 1; i > 0; i-- {
		j := intn(i + 1)
		numbers[i], numbers[j] = numbers[j], numbers[i]
	}

	next := 0
	for _, username := range l.order {
		tickets := l.TicketsByUser[username]
		for i := range tickets {
			tickets[i] = numbers[next]
			next++
		}
		sort.Slice(tickets, func(a, b int) bool { return tickets[a] < tickets[b] })
	}
}

// Entries flattens the ledger into tickets ordered by ticket number
func (l *TicketLedger) Entries() []TicketEntry {
	entries := make([]TicketEntry, 0, l.TotalTickets())
	for _, username := range l.order {
		for _, number := range l.TicketsByUser[username] {
			entries = append(entries, TicketEntry{TicketNumber: number, Username: username})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TicketNumber < entries[j].TicketNumber })
	return entries
}

// Holdings returns per-user ticket lists for users holding tickets, in order of first appearance
func (l *TicketLedger) Holdings() []UserTickets {
	holdings := make([]UserTickets, 0, len(l.order))
	for _, username := range l.order {
		tickets := l.TicketsByUser[username]
		if len(tickets) == 0 {
			continue
		}
		numbers := make([]int64, len(tickets))
		copy(numbers, tickets)
		holdings = append(holdings, UserTickets{
			Username:      username,
			TicketNumbers: numbers,
			TicketCount:   len(numbers),
		})
	}
	return holdings
}

// Clone returns a deep copy that shares no mutable state with l
func (l *TicketLedger) Clone() *TicketLedger {
	clone := &TicketLedger{
		TicketsByUser:    make(map[string][]int64, len(l.TicketsByUser)),
		LastSeenWagered:  make(map[string]decimal.Decimal, len(l.LastSeenWagered)),
		NextTicketNumber: l.NextTicketNumber,
		order:            append([]string(nil), l.order...),
	}
	for username, tickets := range l.TicketsByUser {
		numbers := make([]int64, len(tickets))
		copy(numbers, tickets)
		clone.TicketsByUser[username] = numbers
	}
	for username, amount := range l.LastSeenWagered {
		clone.LastSeenWagered[username] = amount
	}
	return clone
}

func (l *TicketLedger) track(username string) {
	if _, seen := l.LastSeenWagered[username]; seen {
		return
	}
	if _, seen := l.TicketsByUser[username]; seen {
		return
	}
	l.order = append(l.order, username)
	l.TicketsByUser[username] = []int64{}
}
