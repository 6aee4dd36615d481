package automaton

import "strings"

// CJK Unified Ideographs accepted by Precheck.
const (
	cjkFirst = 0x4E00
	cjkLast  = 0x9FA5
)

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= cjkFirst && r <= cjkLast:
		return true
	}
	return false
}

// Precheck drops every rune that is not an ASCII letter, an ASCII digit or a
// CJK ideograph in U+4E00..U+9FA5. Neighbours of a dropped rune become adjacent.
func Precheck(text string) string {
	return strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return -1
	}, text)
}
