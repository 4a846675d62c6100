package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docsummary/docs" // registers the OpenAPI document
	"docsummary/internal/handler"
	"docsummary/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	summarizeH *handler.SummarizeHandler,
	statusH *handler.StatusHandler,
	homeH *handler.HomeHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/", homeH.Index)
	r.POST("/summarize", summarizeH.Summarize)
	r.GET("/status", statusH.Stream)

	v1 := r.Group("/api/v1")
	v1.GET("/backends", healthH.Backends)

	return r
}
