package logger

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// sensitiveHeaders are never written to logs.
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// LogHTTPError logs a request error with context pulled from the gin.Context.
// Used by the error-handler middleware so every failed request produces one
// structured log line with the request metadata attached.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := []interface{}{
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"user_agent", c.Request.UserAgent(),
	}

	if requestID, ok := c.Get("request_id"); ok {
		fields = append(fields, "request_id", requestID)
	}

	if statusCode >= http.StatusInternalServerError {
		fields = append(fields, "headers", FilterSensitiveHeaders(c.Request.Header))
		log.Errorw(message, fields...)
	} else {
		log.Warnw(message, fields...)
	}
}

// FilterSensitiveHeaders returns a copy of the headers with credential
// values redacted, suitable for diagnostic logging.
func FilterSensitiveHeaders(h http.Header) map[string][]string {
	filtered := make(map[string][]string, len(h))
	for name, values := range h {
		if sensitiveHeaders[strings.ToLower(name)] {
			filtered[name] = []string{"[REDACTED]"}
			continue
		}
		filtered[name] = values
	}
	return filtered
}
