package handlers

import (
	"net/http"
	"time"

	"github.com/flexprint/mail-relay/config"
	"github.com/flexprint/mail-relay/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version   string
	email     *config.EmailConfig
	startTime time.Time
}

func NewHealthHandler(version string, email *config.EmailConfig) *HealthHandler {
	return &HealthHandler{
		version:   version,
		email:     email,
		startTime: time.Now(),
	}
}

// LivenessCheck handles the platform liveness probe.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck reports whether the relay can deliver email. An
// incomplete delivery configuration degrades the status but keeps the
// endpoint serving, since liveness and readiness are operator signals.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.check())
}

// DetailedHealth provides detailed health information.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.check())
}

func (h *HealthHandler) check() types.HealthCheck {
	emailComponent := types.HealthComponent{Status: types.HealthStatusUp}
	status := types.HealthStatusUp

	if !h.email.IsConfigured() {
		emailComponent = types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "delivery configuration incomplete",
		}
		status = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status: status,
		Components: map[string]types.HealthComponent{
			"email": emailComponent,
		},
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
}
