// Package classifier suggests job roles for a resume using a remote zero-shot
// classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/smelnik/career-assistant/internal/logger"
	"github.com/smelnik/career-assistant/internal/utils"
)

const (
	defaultAPIURL     = "https://api-inference.huggingface.co/models"
	defaultModel      = "facebook/bart-large-mnli"
	defaultMaxRetries = 3

	// Inference endpoints can be slow when the model is cold.
	requestTimeout = 30 * time.Second
	baseBackoff    = time.Second

	contentType = "application/json"
)

// Prediction is the classification result for a resume. Labels and scores are
// parallel slices ordered by descending confidence.
type Prediction struct {
	Sequence       string    `json:"sequence,omitempty"`
	Labels         []string  `json:"labels"`
	Scores         []float64 `json:"scores"`
	BestFittedRole string    `json:"best_fitted_role,omitempty"`
}

// StatusError is returned when the classification service answers with a
// non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classification service returned status %d: %s", e.Code, logger.TruncateForLog(e.Body, 200))
}

// Temporary reports whether the failure is worth retrying.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// Client calls a HuggingFace-Inference-style zero-shot classification API.
type Client struct {
	HTTPClient *http.Client
	APIURL     string

	token      string
	model      string
	maxRetries int
	logger     *zap.Logger
}

// New creates a classification client. The token is required by the remote
// service; validating its presence is the caller's startup concern.
func New(token, model string, maxRetries int, log *zap.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		APIURL:     defaultAPIURL,
		token:      token,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, "huggingface", model),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

// Classify asks the remote service which of the candidate labels fits the
// text best. Transient failures (5xx, transport errors) are retried with
// exponential backoff; client errors are surfaced immediately.
func (c *Client) Classify(ctx context.Context, text string, candidateLabels []string) (*Prediction, error) {
	if text == "" {
		return nil, fmt.Errorf("classification input must not be empty")
	}
	if len(candidateLabels) == 0 {
		return nil, fmt.Errorf("at least one candidate label is required")
	}

	payload, err := json.Marshal(request{
		Inputs: text,
		Parameters: parameters{
			CandidateLabels: candidateLabels,
			MultiLabel:      false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal classification request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		prediction, err := c.post(ctx, payload)
		if err == nil {
			return prediction, nil
		}

		lastErr = err

		if !temporary(err) || attempt == c.maxRetries {
			break
		}

		delay := baseBackoff << (attempt - 1)
		c.logger.Debug("retrying classification request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if werr := utils.WaitFor(ctx, delay); werr != nil {
			return nil, werr
		}
	}

	return nil, fmt.Errorf("classify: %w", lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) (*Prediction, error) {
	url := fmt.Sprintf("%s/%s", c.APIURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	prediction.BestFittedRole = bestRole(&prediction)

	return &prediction, nil
}

// bestRole picks the label with the highest score.
func bestRole(p *Prediction) string {
	if len(p.Labels) == 0 || len(p.Scores) == 0 {
		return ""
	}

	best := 0
	for i := 1; i < len(p.Scores) && i < len(p.Labels); i++ {
		if p.Scores[i] > p.Scores[best] {
			best = i
		}
	}

	return p.Labels[best]
}

// temporary reports whether the error is a transient failure. Transport-level
// errors (connection refused, timeouts) are treated as transient; malformed
// responses and client errors are not.
func temporary(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
