package tui

import (
	"strings"
	"unicode/utf8"
)

// clampString shortens s to maxLen runes, marking the cut with an ellipsis.
// Paths keep their tail, which is usually the part that matters.
func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n <= maxLen {
		return s
	}

	if strings.ContainsAny(s, `/\`) {
		r := []rune(s)
		return "…" + string(r[n-maxLen:])
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		if i >= maxLen {
			break
		}
		b.WriteRune(r)
		i++
	}
	return b.String() + "…"
}
