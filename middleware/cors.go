package middleware

import (
	"net/http"
	"time"

	"github.com/flexprint/mail-relay/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware creates the CORS handler for the relay. Preflight
// requests answer with 200 so browser form clients treat the probe as a
// plain success.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Accept",
			"X-Requested-With",
		},
		ExposeHeaders:             []string{"Content-Length", "X-Request-ID"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}

	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}

	return cors.New(corsConfig)
}

func containsOrigin(origins []string, origin string) bool {
	for _, o := range origins {
		if o == origin {
			return true
		}
	}
	return false
}
