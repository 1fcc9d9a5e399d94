package api

import (
	"github.com/gin-gonic/gin"

	"github.com/postloom/postloom-api/internal/api/handlers"
	apimiddleware "github.com/postloom/postloom-api/internal/api/middleware"
	"github.com/postloom/postloom-api/internal/config"
	"github.com/postloom/postloom-api/internal/metrics"
)

func SetupRouter(cfg *config.Config, cloudwatch *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cloudwatch))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(version)
	router.GET("/health", healthHandler.HealthCheck)

	// Runtime metrics
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		postsHandler := handlers.NewPostsHandler(cfg, cloudwatch)
		v1.POST("/posts/generate", postsHandler.Generate)

		brandHandler := handlers.NewBrandHandler(cfg)
		v1.POST("/brand/analyze", brandHandler.Analyze)

		suggestionsHandler := handlers.NewSuggestionsHandler(cfg)
		v1.POST("/content/suggestions", suggestionsHandler.Suggest)
	}

	return router
}
