package match

import (
	"regexp"
	"strings"
)

// punctPattern covers the separator and punctuation characters collapsed to
// spaces before comparison.
var punctPattern = regexp.MustCompile("[_\\-–—:,.;/\\\\()\\[\\]{}<>|!?\"'`~^*+=]+")

// Normalize lowercases text and collapses punctuation and whitespace so that
// formatting differences between a citation line and extracted PDF text don't
// affect similarity.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the normalized tokens of a string.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// tokenSet builds a membership set from normalized tokens.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokens(s) {
		set[tok] = true
	}
	return set
}
