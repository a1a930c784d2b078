package keywords

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "empty input",
			input:  "",
			expect: []string{},
		},
		{
			name:   "punctuation only",
			input:  "... --- !!!",
			expect: []string{},
		},
		{
			name:   "lowercases and drops stopwords",
			input:  "Python developer with machine learning experience",
			expect: []string{"python", "developer", "machine", "learning", "experience"},
		},
		{
			name:   "strips sentence punctuation",
			input:  "Skilled in Go, Python, and SQL.",
			expect: []string{"skilled", "go", "python", "sql"},
		},
		{
			name:   "drops mixed tokens with punctuation",
			input:  "worked on node.js and state-of-the-art systems",
			expect: []string{"worked", "systems"},
		},
		{
			name:   "keeps numeric tokens",
			input:  "5 years of experience since 2019",
			expect: []string{"5", "years", "experience", "since", "2019"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestIsStopword(t *testing.T) {
	t.Parallel()

	if !IsStopword("the") {
		t.Fatal("expected 'the' to be a stopword")
	}
	if IsStopword("python") {
		t.Fatal("did not expect 'python' to be a stopword")
	}
}
