// Package keywords implements the deterministic part of resume analysis:
// tokenization, keyword extraction and resume-to-job match scoring.
package keywords

import (
	"regexp"
	"strings"
	"unicode"
)

// wordUnits matches word-like units: runs of letters and digits, optionally
// joined by intra-word punctuation ("state-of-the-art", "node.js"). Units that
// keep their punctuation are rejected later by the alphanumeric check.
var wordUnits = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-+&/._][\p{L}\p{N}]+)*`)

// Tokenize lowercases the text and splits it into word tokens, keeping only
// units that are entirely alphanumeric and not stopwords. Token order follows
// the source text. Empty input yields no tokens.
func Tokenize(text string) []string {
	units := wordUnits.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(units))
	for _, unit := range units {
		if !alphanumeric(unit) {
			continue
		}
		if stopwords[unit] {
			continue
		}
		tokens = append(tokens, unit)
	}

	return tokens
}

func alphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
