package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatShortNotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    int64
		expected string
	}{
		{name: "zero", value: 0, expected: "0"},
		{name: "small positive", value: 999, expected: "999"},
		{name: "exactly 1k", value: 1000, expected: "1.0k"},
		{name: "9.9k", value: 9900, expected: "9.9k"},
		{name: "10k", value: 10000, expected: "10k"},
		{name: "1.25M", value: 1_250_000, expected: "1.25M"},
		{name: "2B", value: 2_000_000_000, expected: "2.00B"},
		{name: "negative", value: -1500, expected: "-1.5k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatShortNotation(tt.value))
		})
	}
}

func TestRoundAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1235), RoundAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, int64(1234), RoundAmount(decimal.RequireFromString("1234.49")))
	assert.Equal(t, int64(0), RoundAmount(decimal.Zero))
}
