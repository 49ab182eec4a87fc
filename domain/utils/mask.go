package utils

import (
	"strings"
)

// MaskUsername hides the middle of a username for public display.
// Names of four characters or fewer are returned unchanged.
func MaskUsername(username string) string {
	runes := []rune(username)
	if len(runes) <= 4 {
		return username
	}
	return string(runes[:2]) + "***" + string(runes[len(runes)-2:])
}

// MaskUsernames masks every name in order
func MaskUsernames(usernames []string) []string {
	masked := make([]string, len(usernames))
	for i, name := range usernames {
		masked[i] = MaskUsername(name)
	}
	return masked
}

// MaskWebhookURL keeps only the tail of a webhook URL so it can be listed without leaking the token
func MaskWebhookURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return "Not set"
	}
	if len(url) <= 10 {
		return "***"
	}
	return "***" + url[len(url)-10:]
}
