package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle strips season, year and episode qualifiers so that
// "Show: Season 2" and "Show (2021)" both become "Show". Everything from the
// first ':' or '(' on is dropped and the rest is trimmed. The result is stable
// under repeated application.
func NormalizeTitle(title string) string {
	title = norm.NFC.String(title)
	if i := strings.IndexAny(title, ":("); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
