// Package slug turns free-text titles into URL-safe search tokens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishFold maps the Turkish letters that have no decomposition (ı) or whose
// decomposition we want pinned explicitly to their ASCII counterparts.
var turkishFold = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

// Make returns the slug for text. It is total (the empty string maps to the
// empty string) and idempotent: Make(Make(x)) == Make(x).
func Make(text string) string {
	if text == "" {
		return ""
	}

	s := turkishFold.Replace(text)

	// Drop remaining combining marks so "é" becomes "e" instead of vanishing.
	// transform.Chain is stateful, build it per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		case isWordRune(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
