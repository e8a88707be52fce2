package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexprint/mail-relay/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func buildCORSRouter(cfg *config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.POST("/relay", func(c *gin.Context) {
		c.String(http.StatusOK, "sent")
	})
	return r
}

func TestCORSPreflightAnswersOK(t *testing.T) {
	r := buildCORSRouter(&config.ServerConfig{AllowedOrigins: []string{"*"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/relay", nil)
	req.Header.Set("Origin", "https://flexprint.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	r := buildCORSRouter(&config.ServerConfig{
		AllowedOrigins: []string{"https://flexprint.example"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay", nil)
	req.Header.Set("Origin", "https://flexprint.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://flexprint.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	r := buildCORSRouter(&config.ServerConfig{
		AllowedOrigins: []string{"https://flexprint.example"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	r := buildCORSRouter(&config.ServerConfig{AllowedOrigins: []string{"*"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
