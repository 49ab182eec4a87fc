package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "two characters", input: "ab", expected: "ab"},
		{name: "exactly four", input: "abcd", expected: "abcd"},
		{name: "five characters", input: "abcde", expected: "ab***de"},
		{name: "long name", input: "TYLERGOAT11", expected: "TY***11"},
		{name: "multibyte", input: "ééééé", expected: "éé***éé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MaskUsername(tt.input))
		})
	}
}

func TestMaskUsernames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"al***ce", "bob"}, MaskUsernames([]string{"alicce", "bob"}))
}

func TestMaskWebhookURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: "Not set"},
		{name: "short", input: "abc", expected: "***"},
		{name: "full url", input: "https://discord.com/api/webhooks/123/abcdefghij", expected: "***abcdefghij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MaskWebhookURL(tt.input))
		})
	}
}
