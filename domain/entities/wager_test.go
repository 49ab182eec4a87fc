package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEntries(t *testing.T) {
	t.Parallel()

	entries := []WagerEntry{
		{Username: " alice ", Wagered: decimal.NewFromInt(100)},
		{Username: "", Wagered: decimal.NewFromInt(999)},
		{Username: "bob", Wagered: decimal.NewFromInt(50)},
		{Username: "alice", Wagered: decimal.NewFromInt(300)},
		{Username: "bob", Wagered: decimal.NewFromInt(10)},
	}

	normalized := NormalizeEntries(entries)

	assert.Len(t, normalized, 2)
	assert.Equal(t, "alice", normalized[0].Username)
	assert.True(t, decimal.NewFromInt(300).Equal(normalized[0].Wagered))
	assert.Equal(t, "bob", normalized[1].Username)
	assert.True(t, decimal.NewFromInt(50).Equal(normalized[1].Wagered))
}
