// Package ai defines the interface between the service and its generative
// model providers.
package ai

import "context"

// ErrNotJSON is the error payload value returned when a model response cannot
// be parsed as JSON.
const ErrNotJSON = "Could not parse AI response as JSON"

// Payload is the parsed JSON object returned by a model. When the raw model
// text cannot be parsed, it carries a single "error" entry instead of the
// requested structure; callers never see a raw parse failure.
type Payload map[string]any

// IsError reports whether the payload is the parse-failure fallback.
func (p Payload) IsError() bool {
	_, ok := p["error"]
	return ok
}

// Advisor produces career guidance from a generative model. The model output
// is treated as untrusted text: implementations must degrade malformed
// responses into an error payload rather than failing the request.
type Advisor interface {
	// Recommend asks for categorized career recommendations (career paths,
	// courses, certifications, projects) based on the applicant's profile.
	Recommend(ctx context.Context, academicPerformance, interests, skills string) (Payload, error)

	// Screen asks for a qualitative resume evaluation against a job
	// description: formatting improvements, keywords and a tailored resume.
	Screen(ctx context.Context, resume, jobDescription string) (Payload, error)

	// Improve asks for a complete rewritten resume as LaTeX source and
	// returns the raw generated text.
	Improve(ctx context.Context, resumeText string) (string, error)
}
