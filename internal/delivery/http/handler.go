package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/assortcheck/backend/internal/domain"
	"github.com/assortcheck/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// defaultResultSize matches the number of results an analyst usually wants to
// spot-check for a high-traffic keyword
const defaultResultSize = 400

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis *usecase.AnalysisService) *Handler {
	return &Handler{
		analysis: analysis,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "assortcheck-backend",
		"version": "1.0.0",
	})
}

// analyzeRequest is the JSON body of the analyze endpoint. CheckKeywords
// carries one comma-separated variation list per concept group, exactly as
// typed by the analyst; splitting, trimming and lowercasing happen here.
type analyzeRequest struct {
	ShopID            string   `json:"shop_id" binding:"required"`
	Environment       string   `json:"environment"`
	Query             string   `json:"query" binding:"required"`
	ResultSize        int      `json:"result_size"`
	CheckKeywords     []string `json:"check_keywords" binding:"required"`
	IncludeTranscript bool     `json:"include_transcript"`
}

// AnalyzeAssortment handles assortment quality check requests
func (h *Handler) AnalyzeAssortment(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	env := domain.EnvProd
	if strings.TrimSpace(req.Environment) != "" {
		parsed, err := domain.ParseEnvironment(req.Environment)
		if err != nil {
			h.renderError(c, err)
			return
		}
		env = parsed
	}

	groups, err := usecase.ParseConceptGroups(req.CheckKeywords)
	if err != nil {
		h.renderError(c, err)
		return
	}

	size := req.ResultSize
	if size == 0 {
		size = defaultResultSize
	}

	report, err := h.analysis.Analyze(c.Request.Context(), &domain.AnalysisRequest{
		ShopID:            req.ShopID,
		Environment:       env,
		Query:             req.Query,
		ResultSize:        size,
		Groups:            groups,
		IncludeTranscript: req.IncludeTranscript,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// renderError maps the error taxonomy onto HTTP statuses. Every expected
// failure mode stays user-displayable; anything else becomes a generic 500.
func (h *Handler) renderError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var emptyErr *domain.EmptyResultsError
	var apiErr *domain.APIError
	var netErr *domain.NetworkError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &emptyErr):
		// Zero products is a quality finding, not a server fault
		c.JSON(http.StatusNotFound, gin.H{"error": emptyErr.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "search API returned an error",
			"upstream_status": apiErr.StatusCode,
			"upstream_body":   apiErr.Body,
		})
	case errors.As(err, &netErr):
		status := http.StatusBadGateway
		if netErr.Timeout {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": netErr.Error()})
	default:
		log.Printf("[HTTP] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
	}
}
