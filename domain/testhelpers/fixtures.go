package testhelpers

import (
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/shopspring/decimal"
)

// Anchor is the default period anchor used across tests
var Anchor = time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

// Wagers builds snapshot entries from alternating username, amount pairs
func Wagers(pairs ...any) []entities.WagerEntry {
	entries := make([]entities.WagerEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		var amount decimal.Decimal
		switch v := pairs[i+1].(type) {
		case int:
			amount = decimal.NewFromInt(int64(v))
		case float64:
			amount = decimal.NewFromFloat(v)
		case string:
			amount = decimal.RequireFromString(v)
		case decimal.Decimal:
			amount = v
		}
		entries = append(entries, entities.WagerEntry{Username: pairs[i].(string), Wagered: amount})
	}
	return entries
}
