package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cityMarkers are the words that usually precede a place name
var cityMarkers = map[string]bool{
	"in":  true,
	"for": true,
	"at":  true,
}

// maxCityTokens is how many tokens after a marker make up the city
const maxCityTokens = 2

// Tokenize lower-cases a message and splits it on runs of whitespace
func Tokenize(message string) []string {
	return strings.Fields(strings.ToLower(message))
}

// ExtractCity returns the city named after the first marker token that has
// a follower. Up to two following tokens are always taken, so
// "in paris now" yields "Paris now".
func ExtractCity(tokens []string) (string, bool) {
	for i, token := range tokens {
		if !cityMarkers[token] || i+1 >= len(tokens) {
			continue
		}
		end := i + 1 + maxCityTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		return capitalize(strings.Join(tokens[i+1:end], " ")), true
	}
	return "", false
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
