package utils

import (
	"html"
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// EscapeSQLWildcards escapes LIKE wildcards in user input.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery trims, caps at 100 chars, escapes wildcards and wraps in %.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 100 {
		input = input[:100]
	}
	return "%" + EscapeSQLWildcards(input) + "%"
}

// SanitizeHTML escapes HTML entities in user-generated text.
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// NormalizeLocation is the canonical form locations are stored and searched in.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
