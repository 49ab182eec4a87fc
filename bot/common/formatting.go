package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCount formats an integer with thousand separators
func FormatCount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + groupThousands(fmt.Sprintf("%d", n))
}

// FormatUSD formats an amount as dollars with two decimals and thousand separators
func FormatUSD(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	return fmt.Sprintf("%s$%s.%s", sign, groupThousands(whole), cents)
}

// FormatProfit formats a signed amount, always showing the sign of gains
func FormatProfit(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return FormatUSD(amount)
	}
	return "+" + FormatUSD(amount)
}

// FormatPercent formats a percentage with one decimal
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "d" = short date, "f" = short date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// TruncateField shortens s to fit an embed field value
func TruncateField(s string) string {
	if len(s) <= MaxFieldValueLength {
		return s
	}
	return s[:MaxFieldValueLength-3] + "..."
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var result strings.Builder
	for i, digit := range digits {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}
