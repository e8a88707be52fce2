// Package middleware contains the Gin middleware shared by all routes:
// request IDs, CORS, security headers, and the error-to-response mapper.
package middleware

import (
	"net/http"
	"strconv"

	apperrors "github.com/flexprint/mail-relay/errors"
	"github.com/flexprint/mail-relay/logger"
	"github.com/flexprint/mail-relay/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached via c.Error into HTTP responses.
// Every failure path produces a non-empty JSON body naming the condition;
// internal details are only surfaced for client errors and provider
// rejections, never for 5xx conditions other than the gateway error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appError, ok := err.(*apperrors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, string(appError.Type))

			response := types.ErrorResponse{
				Type:    string(appError.Type),
				Message: appError.Message,
				Code:    strconv.Itoa(statusCode),
			}

			if appError.Detail != "" && includeDetail(appError.Type) {
				response.Details = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		// Gin binding errors surface as 400s.
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")

			response := types.ErrorResponse{
				Type:    string(apperrors.MalformedBodyError),
				Message: "Failed to bind request",
				Code:    "400",
			}
			if gin.IsDebugging() {
				response.Details = err.Error()
			}
			c.JSON(http.StatusBadRequest, response)
			return
		}

		// Anything else is an unexpected failure: generic message, no
		// internals in the body.
		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Type:    string(apperrors.ServerError),
			Message: "Internal Server Error",
			Code:    "500",
		})
	}
}

// includeDetail reports whether an error type's detail is safe to put in
// the response body. Provider diagnostics are deliberately forwarded so
// a failing send is debuggable from the caller's side.
func includeDetail(errType apperrors.ErrorType) bool {
	switch errType {
	case apperrors.ValidationError,
		apperrors.MalformedBodyError,
		apperrors.PayloadTooLargeErr,
		apperrors.ProviderError:
		return true
	default:
		return gin.IsDebugging()
	}
}
