package keywords

import "math"

// maxMissing caps the reported missing keywords at the most important ones.
const maxMissing = 5

// Report describes how well a resume covers the keywords of a job
// description.
type Report struct {
	// MatchPercentage is the share of job keywords found in the resume,
	// in [0, 100], rounded to two decimal places.
	MatchPercentage float64 `json:"match_percentage"`
	// MatchingKeywords are resume keywords also present in the job
	// profile, in resume rank order.
	MatchingKeywords []string `json:"matching_keywords"`
	// MissingKeywords are the highest-ranked job keywords absent from the
	// resume, at most five.
	MissingKeywords []string `json:"missing_keywords"`
}

// Analyze compares a resume against a job description. Both texts are profiled
// independently; only the top keywords of each document are compared. The
// function is pure: the same inputs always produce the same report, and empty
// inputs produce a zero match with empty keyword lists.
func Analyze(resume, jobDescription string) Report {
	resumeProfile := Extract(Tokenize(resume))
	jobProfile := Extract(Tokenize(jobDescription))

	matching := make([]string, 0, len(resumeProfile.Terms))
	for _, term := range resumeProfile.Terms {
		if jobProfile.Contains(term.Text) {
			matching = append(matching, term.Text)
		}
	}

	percentage := 0.0
	if total := len(jobProfile.Terms); total > 0 {
		percentage = float64(len(matching)) / float64(total) * 100
		percentage = math.Round(percentage*100) / 100
	}

	missing := make([]string, 0, maxMissing)
	for _, term := range jobProfile.Terms {
		if len(missing) == maxMissing {
			break
		}
		if !resumeProfile.Contains(term.Text) {
			missing = append(missing, term.Text)
		}
	}

	return Report{
		MatchPercentage:  percentage,
		MatchingKeywords: matching,
		MissingKeywords:  missing,
	}
}
