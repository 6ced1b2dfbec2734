package extract

import (
	"strings"
	"unicode"
)

// CleanNomenclature turns the buffered free-text words of one row into a
// description: all-digit words are dropped, punctuation is stripped and the
// surviving words are joined with single spaces.
func CleanNomenclature(words []string) string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if isNumeral(w) {
			continue
		}
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
				return r
			}
			return -1
		}, w)
		if w == "" {
			continue
		}
		kept = append(kept, w)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// isNumeral reports whether s is made of decimal digits in any script.
func isNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
