package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/smelnik/career-assistant/internal/ai"
	"github.com/smelnik/career-assistant/internal/logger"
)

//go:embed recommend_prompt.md
var recommendPrompt string

//go:embed screen_prompt.md
var screenPrompt string

//go:embed improve_prompt.md
var improvePrompt string

const (
	recommendSystem = "You are a career advisor. You always respond with valid JSON and nothing else."
	screenSystem    = "You are a resume screening assistant. You always respond with valid JSON and nothing else."
	improveSystem   = "You are a resume writing assistant producing LaTeX documents."

	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Advisor implements ai.Advisor using a Gemini content generator.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewAdvisor creates an Advisor on top of the given generator.
func NewAdvisor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// Recommend implements ai.Advisor.
func (a *Advisor) Recommend(ctx context.Context, academicPerformance, interests, skills string) (ai.Payload, error) {
	prompt := strings.NewReplacer(
		"{{ACADEMIC_PERFORMANCE}}", academicPerformance,
		"{{INTERESTS}}", interests,
		"{{SKILLS}}", skills,
	).Replace(recommendPrompt)

	payload, err := a.generateJSON(ctx, "career_recommendations", recommendSystem, prompt)
	if err != nil {
		return nil, err
	}

	if !payload.IsError() {
		a.logRecommendation(payload)
	}

	return payload, nil
}

// Screen implements ai.Advisor.
func (a *Advisor) Screen(ctx context.Context, resume, jobDescription string) (ai.Payload, error) {
	prompt := strings.NewReplacer(
		"{{RESUME}}", resume,
		"{{JOB_DESCRIPTION}}", jobDescription,
	).Replace(screenPrompt)

	return a.generateJSON(ctx, "resume_screening", screenSystem, prompt)
}

// Improve implements ai.Advisor.
func (a *Advisor) Improve(ctx context.Context, resumeText string) (string, error) {
	prompt := strings.ReplaceAll(improvePrompt, "{{RESUME}}", resumeText)

	raw, err := a.generator.GenerateContent(ctx, improveSystem, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("model improve response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return extractLaTeX(raw), nil
}

// generateJSON runs the prompt and strictly parses the response as a JSON
// object. A malformed response degrades to the error payload instead of an
// error: the model's output format is requested, never guaranteed.
func (a *Advisor) generateJSON(ctx context.Context, operation, system, prompt string) (ai.Payload, error) {
	a.logger.Debug("model request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	a.logger.Debug("model response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	payload, err := parsePayload(raw)
	if err != nil {
		a.logger.Warn("model response is not valid JSON",
			zap.String("operation", operation),
			zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
			zap.Error(err),
		)
		return ai.Payload{"error": ai.ErrNotJSON}, nil
	}

	return payload, nil
}

// recommendationSummary captures the expected shape of a recommendation
// payload for logging. Decoding is best-effort only.
type recommendationSummary struct {
	CareerPaths    []any `mapstructure:"career_paths"`
	Courses        []any `mapstructure:"courses"`
	Certifications []any `mapstructure:"certifications"`
	Projects       []any `mapstructure:"projects"`
}

func (a *Advisor) logRecommendation(payload ai.Payload) {
	var summary recommendationSummary
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &summary,
	})
	if err != nil {
		return
	}
	if err := decoder.Decode(map[string]any(payload)); err != nil {
		a.logger.Debug("recommendation payload has unexpected shape", zap.Error(err))
		return
	}

	a.logger.Debug("recommendation parsed",
		zap.Int("career_paths", len(summary.CareerPaths)),
		zap.Int("courses", len(summary.Courses)),
		zap.Int("certifications", len(summary.Certifications)),
		zap.Int("projects", len(summary.Projects)),
	)
}

func parsePayload(raw string) (ai.Payload, error) {
	cleaned := extractJSON(raw)

	var payload ai.Payload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	// A literal "null" decodes to a nil map.
	if payload == nil {
		return nil, fmt.Errorf("parse model response: not a JSON object")
	}

	return payload, nil
}

// extractJSON strips markdown code fences the model tends to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// extractLaTeX strips code fences around a generated LaTeX document.
func extractLaTeX(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```latex")
		raw = strings.TrimPrefix(raw, "```tex")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
