package core

import (
	"strings"
	"unicode"
)

// NormalizeIdentifier implements CommonMark reference-identifier
// normalization: strip surrounding whitespace, collapse internal runs of
// whitespace to a single space, and case-fold for comparison purposes.
// Both the label-end recognizer (matching a shortcut/collapsed identifier
// against the definition set) and the host's definition pre-pass
// (harvesting `[id]: dest` blocks) must use the same normalization or
// `[Foo]` and `[foo]: /x` would fail to match.
func NormalizeIdentifier(raw string) string {
	var b strings.Builder
	lastWasSpace := true // trims leading whitespace for free
	for _, r := range raw {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(unicode.ToLower(r))
		lastWasSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}
