package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes potentially dangerous characters from free text.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 200 {
		input = input[:200]
	}

	return input
}

// SanitizeHTML removes all HTML tags.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// NormalizeGuess prepares a player's free-text answer for matching: strips
// markup, folds the Cyrillic ё into е (players type either spelling of names
// like Белёв), and collapses runs of whitespace.
func NormalizeGuess(input string) string {
	input = SanitizeHTML(SanitizeString(input))
	input = strings.ReplaceAll(input, "ё", "е")
	input = strings.ReplaceAll(input, "Ё", "Е")
	return strings.Join(strings.Fields(input), " ")
}

// SanitizeDisplayName cleans a player name before it is persisted to the
// score ledger and rendered in leaderboards.
func SanitizeDisplayName(input string) string {
	name := SanitizeHTML(SanitizeString(input))
	if name == "" {
		return "anonymous"
	}
	return name
}
