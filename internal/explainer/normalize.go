package explainer

import (
	"regexp"
	"strings"
)

var (
	emphasisPattern   = regexp.MustCompile(`\*\*|__`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	trailingWSPerLine = regexp.MustCompile(`[ \t]+\n`)
)

// Normalize cleans completion output for display and for transcript reuse:
// emphasis markers are stripped, runs of blank lines collapse to a single
// blank line and surrounding whitespace is trimmed.
func Normalize(s string) string {
	out := emphasisPattern.ReplaceAllString(s, "")
	out = trailingWSPerLine.ReplaceAllString(out, "\n")
	out = blankRunPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
