package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WagerEntry is one user's cumulative wagered amount for a window
type WagerEntry struct {
	Username string
	Wagered  decimal.Decimal
}

// NormalizeEntries drops blank usernames and collapses duplicate rows for the same user,
// keeping the largest reported amount. First-seen order is preserved.
func NormalizeEntries(entries []WagerEntry) []WagerEntry {
	index := make(map[string]int, len(entries))
	normalized := make([]WagerEntry, 0, len(entries))

	for _, entry := range entries {
		username := strings.TrimSpace(entry.Username)
		if username == "" {
			continue
		}
		if i, dup := index[username]; dup {
			if entry.Wagered.GreaterThan(normalized[i].Wagered) {
				normalized[i].Wagered = entry.Wagered
			}
			continue
		}
		index[username] = len(normalized)
		normalized = append(normalized, WagerEntry{Username: username, Wagered: entry.Wagered})
	}

	return normalized
}
