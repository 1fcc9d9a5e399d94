package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postloom/postloom-api/internal/agents/suggest"
	"github.com/postloom/postloom-api/internal/config"
	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/logger"
)

// SuggestionsHandler serves the content suggestion endpoint
type SuggestionsHandler struct {
	cfg     *config.Config
	factory *llm.ProviderFactory
}

func NewSuggestionsHandler(cfg *config.Config) *SuggestionsHandler {
	return &SuggestionsHandler{
		cfg:     cfg,
		factory: llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
	}
}

// Suggest returns post ideas tailored to the brand
func (h *SuggestionsHandler) Suggest(c *gin.Context) {
	var req suggest.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BrandName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brandName is required"})
		return
	}

	provider, err := h.factory.GetProvider(c.Request.Context(), h.cfg.DefaultModel, "")
	if err != nil {
		logger.Error("Provider unavailable", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agent := suggest.NewSuggestAgent(provider, h.cfg.DefaultModel)
	suggestions, err := agent.Suggest(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited"})
		case errors.Is(err, llm.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Usage limit reached"})
		default:
			logger.Error("Content suggestions failed", err, logger.WithContext(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
