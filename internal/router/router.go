package router

import (
	"github.com/gin-gonic/gin"

	"noilens/internal/config"
	"noilens/internal/handler"
	"noilens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	extractionH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
	corsCfg *config.CORSConfig,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsCfg.AllowedOrigins))

	// Health check
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	v1.POST("/extractions", extractionH.Extract)
	v1.POST("/extractions/batch", extractionH.ExtractBatch)

	return r
}
