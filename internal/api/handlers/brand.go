package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postloom/postloom-api/internal/agents/brandvoice"
	"github.com/postloom/postloom-api/internal/config"
	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/logger"
)

// BrandHandler serves the brand analysis endpoint
type BrandHandler struct {
	cfg     *config.Config
	factory *llm.ProviderFactory
}

func NewBrandHandler(cfg *config.Config) *BrandHandler {
	return &BrandHandler{
		cfg:     cfg,
		factory: llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
	}
}

// Analyze extracts a brand profile from the submitted material
func (h *BrandHandler) Analyze(c *gin.Context) {
	var req brandvoice.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.WebsiteURL == "" && len(req.SamplePosts) == 0 && req.Guidelines == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide at least one of websiteUrl, samplePosts or guidelines"})
		return
	}

	provider, err := h.factory.GetProvider(c.Request.Context(), h.cfg.DefaultModel, "")
	if err != nil {
		logger.Error("Provider unavailable", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agent := brandvoice.NewBrandAgent(provider, h.cfg.DefaultModel)
	profile, err := agent.Analyze(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited"})
		case errors.Is(err, llm.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Usage limit reached"})
		default:
			logger.Error("Brand analysis failed", err, logger.WithContext(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
