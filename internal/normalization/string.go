package normalization

import (
	"strings"
)

// ParseInputString lowercases and trims identity-like input (emails, usernames).
func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// ParseFreeText trims free text without lowercasing it; idea titles are
// display data and keep their casing.
func ParseFreeText(input string) string {
	return strings.TrimSpace(input)
}
