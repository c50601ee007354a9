package bunnings

import (
	"regexp"
	"strings"
)

const maxQueryLength = 60

var (
	// Matches quantity/unit tokens like "2L", "500 ml", "3 sheets", "1 roll"
	unitQuantityPattern = regexp.MustCompile(`(?i)\b\d+\s*(?:ml|l|mm|cm|m|sheets?|packs?|rolls?)\b`)

	// Matches a dash (hyphen, en or em) and the whitespace around it.
	// \p{Zs} covers no-break and other Unicode spaces that \s misses.
	dashPattern = regexp.MustCompile(`[\s\p{Zs}]*[-—–][\s\p{Zs}]*`)

	multiSpacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// BuildSearchQuery turns a free-text material description into a catalog
// search query: unit quantities and dashes are removed, whitespace is
// collapsed and trimmed, then the result is cut to 60 characters. The cut
// is not trimmed again, so a query may end in a space.
func BuildSearchQuery(item string) string {
	cleaned := unitQuantityPattern.ReplaceAllString(item, "")
	cleaned = dashPattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if runes := []rune(cleaned); len(runes) > maxQueryLength {
		cleaned = string(runes[:maxQueryLength])
	}

	return cleaned
}
