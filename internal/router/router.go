// Package router sets up all HTTP routes for the API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/ocr-api/internal/handlers"
	"github.com/Shimizu-Technology/ocr-api/internal/middleware"
	"github.com/Shimizu-Technology/ocr-api/internal/models"
)

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, rateLimit int, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(allowedOrigins))

	// Wrong verbs on known paths get 405 instead of 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Error: "Method not allowed",
			Code:  http.StatusMethodNotAllowed,
		})
	})

	rateLimiter := middleware.NewRateLimiter(rateLimit)

	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// API documentation
		api.GET("/docs", h.ServeSwaggerUI)
		api.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)
		api.GET("/docs/openapi.json", h.ServeOpenAPIJSON)

		api.POST("/ocr", rateLimiter.RateLimit(), h.ExtractText)

		api.GET("/extractions", h.ListExtractions)
		api.GET("/extractions/:id", h.GetExtraction)
		api.GET("/extractions/:id/export", h.ExportExtraction)
	}

	return r
}
