// Package server provides the inbound HTTP API of career-assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/smelnik/career-assistant/internal/ai"
	"github.com/smelnik/career-assistant/internal/classifier"
	"github.com/smelnik/career-assistant/internal/document"
)

const defaultModelTimeout = 60 * time.Second

// defaultCandidateLabels are used when the analyze request does not supply
// its own candidate roles.
var defaultCandidateLabels = []string{"Data Scientist", "Software Engineer", "AI Researcher"}

// JobClassifier suggests job roles for extracted resume text.
type JobClassifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) (*classifier.Prediction, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// UploadDir is where uploaded files are temporarily stored. Empty
	// means the system temp directory.
	UploadDir string
	// ModelTimeout bounds a single outbound model call. Generative
	// responses are slow, so the default is generous.
	ModelTimeout time.Duration
}

// Server provides the HTTP endpoints.
type Server struct {
	echo       *echo.Echo
	advisor    ai.Advisor
	classifier JobClassifier
	logger     *zap.Logger
	config     *Config

	// extractText is swapped in tests.
	extractText func(path string) string
}

// New creates the HTTP server with all routes registered.
func New(advisor ai.Advisor, jobClassifier JobClassifier, logger *zap.Logger, cfg *Config) (*Server, error) {
	if advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if jobClassifier == nil {
		return nil, fmt.Errorf("job classifier is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = defaultModelTimeout
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:       e,
		advisor:    advisor,
		classifier: jobClassifier,
		logger:     logger,
		config:     cfg,
	}
	s.extractText = func(path string) string {
		return document.ExtractText(path, logger)
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	s.echo.POST("/career_recommendations", s.handleCareerRecommendations)
	s.echo.POST("/resume_screening", s.handleResumeScreening)
	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.POST("/improve", s.handleImprove)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
