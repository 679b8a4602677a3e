package utils

import "unicode"

// IsCityNameRune checks if a rune may appear in a city name:
// any letter, whitespace, a hyphen or an apostrophe.
func IsCityNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsSpace(r) || r == '-' || r == '\''
}

// IsCityName checks if every rune of s passes IsCityNameRune.
// Empty strings are valid; callers decide what empty input means.
func IsCityName(s string) bool {
	for _, r := range s {
		if !IsCityNameRune(r) {
			return false
		}
	}
	return true
}
