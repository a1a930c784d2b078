package keywords

import "sort"

// maxTerms caps a profile at the most frequent terms of a document. Only these
// terms ever take part in match scoring.
const maxTerms = 10

// Term is a keyword together with its frequency in the source document.
type Term struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Profile is a ranked, capped list of the most frequent meaningful terms
// extracted from a single document.
type Profile struct {
	Terms []Term
}

// Extract builds a keyword profile from a token stream. Terms are ordered by
// descending frequency; ties keep first-encountered order. The result is
// truncated to the top terms.
func Extract(tokens []string) Profile {
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	terms := make([]Term, 0, len(order))
	for _, text := range order {
		terms = append(terms, Term{Text: text, Count: counts[text]})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Count > terms[j].Count
	})

	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}

	return Profile{Terms: terms}
}

// Contains reports whether the profile holds the given term.
func (p Profile) Contains(term string) bool {
	for _, t := range p.Terms {
		if t.Text == term {
			return true
		}
	}
	return false
}

// TermTexts returns the profile terms in rank order, without counts.
func (p Profile) TermTexts() []string {
	texts := make([]string, 0, len(p.Terms))
	for _, t := range p.Terms {
		texts = append(texts, t.Text)
	}
	return texts
}
