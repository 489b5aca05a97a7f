package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns a label into a lowercase, dash-separated file name stem.
// Accents are folded to their base letter so "Révision" becomes "revision".
func Make(input string) string {
	s := norm.NFKD.String(strings.TrimSpace(input))
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "review"
	}
	return s
}
