// Package router wires the HTTP routes and middleware for the relay.
package router

import (
	"net/http"

	"github.com/flexprint/mail-relay/config"
	"github.com/flexprint/mail-relay/handlers"
	"github.com/flexprint/mail-relay/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	RelayHandler  *handlers.RelayHandler
	HealthHandler *handlers.HealthHandler
	Logger        *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Requests with a verb other than GET/POST/OPTIONS on known paths
	// must answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware(&deps.Config.Server))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// The relay endpoint: GET is a liveness probe, POST carries the
	// submission, OPTIONS is answered by the CORS middleware.
	r.GET("/relay", deps.RelayHandler.Ping)
	r.POST("/relay", deps.RelayHandler.Submit)

	return r
}
