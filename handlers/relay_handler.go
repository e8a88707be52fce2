// Package handlers contains the Gin HTTP handlers for the relay service.
package handlers

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/flexprint/mail-relay/errors"
	"github.com/flexprint/mail-relay/mailer"
	"github.com/flexprint/mail-relay/types"
	"github.com/gin-gonic/gin"
)

// SubmissionSender is the slice of the mailer the relay handler needs.
type SubmissionSender interface {
	Send(ctx context.Context, sub *types.Submission) (*types.RelayResult, error)
}

// RelayHandler accepts form submissions and forwards them as email.
type RelayHandler struct {
	mailer SubmissionSender
}

// NewRelayHandler creates a new RelayHandler.
func NewRelayHandler(m SubmissionSender) *RelayHandler {
	return &RelayHandler{mailer: m}
}

// Ping godoc
// @Summary      Relay liveness probe
// @Description  Returns a plain OK without touching the delivery path
// @Tags         relay
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /relay [get]
func (h *RelayHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Submit godoc
// @Summary      Relay a form submission as email
// @Description  Validates a contact/booking submission, decodes its attachments, and forwards it to the configured inbox
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        body  body      types.SubmissionRequest  true  "Submission payload"
// @Success      200   {object}  types.RelayResponse
// @Failure      400   {object}  types.ErrorResponse  "Missing required fields or unparsable body"
// @Failure      413   {object}  types.ErrorResponse  "Combined attachment size over 8 MiB"
// @Failure      500   {object}  types.ErrorResponse  "Email not configured or unexpected failure"
// @Failure      502   {object}  types.ErrorResponse  "Provider rejected the send"
// @Router       /relay [post]
func (h *RelayHandler) Submit(c *gin.Context) {
	var req types.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.MalformedBody(err))
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		_ = c.Error(apperrors.MissingFields(strings.Join(missing, ", ")))
		return
	}

	attachments, err := mailer.DecodeAttachments(req.Attachments)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sub := &types.Submission{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Subject:     strings.TrimSpace(req.Subject),
		Service:     strings.TrimSpace(req.Service),
		Source:      req.Source,
		Message:     req.Message,
		Attachments: attachments,
	}

	result, err := h.mailer.Send(c.Request.Context(), sub)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RelayResponse{OK: true, ID: result.ID})
}
