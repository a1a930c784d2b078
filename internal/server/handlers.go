package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/smelnik/career-assistant/internal/document"
	"github.com/smelnik/career-assistant/internal/keywords"
)

// ErrorResponse is the error payload for all endpoints. Message is set when
// there is more detail than the category line.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RecommendationRequest is the request body for POST /career_recommendations.
type RecommendationRequest struct {
	AcademicPerformance string `json:"academic_performance"`
	Interests           string `json:"interests"`
	Skills              string `json:"skills"`
}

func (s *Server) handleCareerRecommendations(c echo.Context) error {
	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	ctx, cancel := s.modelContext(c)
	defer cancel()

	payload, err := s.advisor.Recommend(ctx, req.AcademicPerformance, req.Interests, req.Skills)
	if err != nil {
		s.logger.Error("career recommendation failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "career recommendation failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, payload)
}

// ScreeningRequest is the request body for POST /resume_screening.
type ScreeningRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"job_description"`
}

func (s *Server) handleResumeScreening(c echo.Context) error {
	var req ScreeningRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	// The match report is computed locally and attached regardless of what
	// the model returns.
	report := keywords.Analyze(req.Resume, req.JobDescription)

	ctx, cancel := s.modelContext(c)
	defer cancel()

	payload, err := s.advisor.Screen(ctx, req.Resume, req.JobDescription)
	if err != nil {
		s.logger.Error("resume screening failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "resume screening failed",
			Message: err.Error(),
		})
	}

	payload["match_analysis"] = report

	return c.JSON(http.StatusOK, payload)
}

// AnalyzeResponse is the response body for POST /analyze.
type AnalyzeResponse struct {
	JobSuggestion any    `json:"job_suggestion"`
	ExtractedText string `json:"extracted_text"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	text, done := s.extractUpload(c)
	if done {
		return nil
	}

	labels := parseCandidateLabels(c.FormValue("candidate_labels"))

	ctx, cancel := s.modelContext(c)
	defer cancel()

	prediction, err := s.classifier.Classify(ctx, text, labels)
	if err != nil {
		s.logger.Error("job classification failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "job classification failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		JobSuggestion: prediction,
		ExtractedText: text,
	})
}

// ImproveResponse is the response body for POST /improve.
type ImproveResponse struct {
	Improvements string `json:"improvements"`
}

func (s *Server) handleImprove(c echo.Context) error {
	text, done := s.extractUpload(c)
	if done {
		return nil
	}

	ctx, cancel := s.modelContext(c)
	defer cancel()

	improvements, err := s.advisor.Improve(ctx, text)
	if err != nil {
		s.logger.Error("resume improvement failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "resume improvement failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, ImproveResponse{Improvements: improvements})
}

// extractUpload validates the uploaded resume, stores it under a unique
// temporary path, extracts its text and removes the file again. When done is
// true a response has already been written and the handler must return nil.
func (s *Server) extractUpload(c echo.Context) (text string, done bool) {
	file, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded"})
		return "", true
	}

	// Rejected before any extraction is attempted.
	if file.Filename == "" || !document.IsPDFFilename(file.Filename) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid file type. Only PDFs are allowed."})
		return "", true
	}

	src, err := file.Open()
	if err != nil {
		s.logger.Error("opening uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not read the uploaded file"})
		return "", true
	}
	defer src.Close()

	path, err := document.SaveUpload(s.config.UploadDir, src)
	if err != nil {
		s.logger.Error("saving uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not store the uploaded file"})
		return "", true
	}
	// The temporary copy never outlives the request.
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("removing temporary upload failed",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}()

	text = s.extractText(path)
	if text == "" {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not extract text from the PDF"})
		return "", true
	}

	return text, false
}

func parseCandidateLabels(raw string) []string {
	labels := make([]string, 0)
	for _, label := range strings.Split(raw, ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}

	if len(labels) == 0 {
		return defaultCandidateLabels
	}

	return labels
}

// modelContext bounds an outbound model call by the configured timeout.
func (s *Server) modelContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.config.ModelTimeout)
}
