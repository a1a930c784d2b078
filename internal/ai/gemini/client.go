// Package gemini implements the career advisor on top of the Google GenAI
// API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3

	baseRetryDelay = 2 * time.Second
	// maxQuotaDelay is the longest server-advertised quota delay worth
	// waiting for. Anything longer fails the call immediately.
	maxQuotaDelay = 30 * time.Second
)

// sleep is stubbed in tests.
var sleep = time.Sleep

var retryAfterRe = regexp.MustCompile(`retry after (\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (g *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return g.client.Chats.Create(ctx, model, config, history)
}

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions with bounded retry on transient API failures.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      &genaiChats{client: client},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// GenerateContent sends the message to Gemini under the given system
// instruction and returns the first textual response. Transient API errors
// are retried up to the configured number of attempts.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		chat, err := g.chats.Create(ctx, g.model, config, nil)
		if err != nil {
			return "", fmt.Errorf("create chat session: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
		if err == nil {
			output := collectText(resp)
			if output == "" {
				return "", errors.New("gemini api returned empty response")
			}
			return output, nil
		}

		lastErr = err

		delay, retriable := retryDelay(err, attempt)
		if !retriable || attempt == g.maxRetries {
			break
		}

		g.logger.Debug("retrying gemini call",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// retryDelay decides whether the error is worth retrying and how long to wait
// before the next attempt. Server errors back off linearly; quota errors honor
// the server-advertised delay when it is short enough.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code >= http.StatusInternalServerError:
		return baseRetryDelay * time.Duration(attempt), true
	case apiErr.Code == http.StatusTooManyRequests:
		delay, ok := quotaDelay(apiErr.Message)
		if !ok || delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	default:
		return 0, false
	}
}

func quotaDelay(message string) (time.Duration, bool) {
	match := retryAfterRe.FindStringSubmatch(strings.ToLower(message))
	if match == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}
