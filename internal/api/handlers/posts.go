package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postloom/postloom-api/internal/agents/composer"
	"github.com/postloom/postloom-api/internal/config"
	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/logger"
	"github.com/postloom/postloom-api/internal/metrics"
	"github.com/postloom/postloom-api/internal/models"
)

// allowedModels lists the models clients may request
var allowedModels = map[string]bool{
	"gpt-5-mini":       true,
	"gpt-5-nano":       true,
	"gemini-2.5-flash": true,
	"gemini-2.5-pro":   true,
}

// PostsHandler serves the post generation endpoint
type PostsHandler struct {
	cfg           *config.Config
	factory       *llm.ProviderFactory
	sentryMetrics *metrics.SentryMetrics
	cloudwatch    *metrics.Client
}

func NewPostsHandler(cfg *config.Config, cloudwatch *metrics.Client) *PostsHandler {
	return &PostsHandler{
		cfg:           cfg,
		factory:       llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		sentryMetrics: metrics.NewSentryMetrics(),
		cloudwatch:    cloudwatch,
	}
}

// Generate runs the post generation pipeline for one request
func (h *PostsHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Intent is mandatory unless the caller is iterating on an existing post
	if req.Intent == "" && !req.IsIteration() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intent is required"})
		return
	}

	model := req.Model
	if model == "" {
		model = h.cfg.DefaultModel
	}
	if !allowedModels[model] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid model. Allowed: gpt-5-mini, gpt-5-nano, gemini-2.5-flash, gemini-2.5-pro",
		})
		return
	}

	provider, err := h.factory.GetProvider(c.Request.Context(), model, "")
	if err != nil {
		// Missing credentials are a deployment problem, not a client one
		logger.Error("Provider unavailable", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agent := composer.NewComposerAgent(provider, model, h.sentryMetrics, h.cloudwatch)
	result, err := agent.Generate(c.Request.Context(), &req)
	if err != nil {
		h.respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondGenerationError maps pipeline failures to the client-facing
// status codes. Only provider throttling and quota exhaustion get
// dedicated statuses; everything else is a 500.
func (h *PostsHandler) respondGenerationError(c *gin.Context, err error) {
	fields := logger.WithContext(c)

	switch {
	case errors.Is(err, llm.ErrRateLimited):
		logger.Warn("Generation rate limited", fields)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited. Please try again shortly."})
	case errors.Is(err, llm.ErrQuotaExceeded):
		logger.Warn("Generation quota exceeded", fields)
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Usage limit reached. Please add credits."})
	default:
		logger.Error("Generation failed", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
