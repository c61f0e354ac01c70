package utils

import (
	"strings"
	"unicode"
)

// NormalizeKey turns a display name into the lookup key used for resolved
// food items and exercise activities: lowercase, and every whitespace
// character replaced by a single "-". Runs are not collapsed, so
// "Grilled  Chicken" becomes "grilled--chicken".
//
// Whitespace is the set stored keys were built with: U+FEFF counts,
// U+0085 does not.
func NormalizeKey(raw string) string {
	return strings.Map(func(r rune) rune {
		if isKeySpace(r) {
			return '-'
		}
		return r
	}, strings.ToLower(raw))
}

func isKeySpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
