// Package mailer turns validated form submissions into outbound emails:
// it decodes attachments, composes the message, and delivers it through
// the Resend API, normalizing the provider's response.
package mailer

import (
	"context"
	"time"

	"github.com/flexprint/mail-relay/config"
	apperrors "github.com/flexprint/mail-relay/errors"
	"github.com/flexprint/mail-relay/logger"
	"github.com/flexprint/mail-relay/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

type Metrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

type Service struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *Metrics
}

func NewService(cfg *config.EmailConfig) *Service {
	return NewServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *Service {
	logger.GetLogger().Infow("Initializing mail relay service",
		"from", cfg.FromAddress,
		"to", logger.MaskEmail(cfg.ToAddress),
		"api_key", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 2))

	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &Metrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailrelay_send_duration_seconds",
			Help:    "Time taken to deliver submission emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mailrelay_send_errors_total",
			Help: "Total number of failed delivery attempts",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mailrelay_emails_sent_total",
			Help: "Total number of submission emails delivered",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &Service{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// Send delivers one validated submission to the configured destination.
// Exactly one provider call is made per submission; there is no retry.
// Reply-To is always the submitter's address so the recipient can answer
// directly from their mail client.
func (s *Service) Send(ctx context.Context, sub *types.Submission) (*types.RelayResult, error) {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if !s.config.IsConfigured() {
		s.metrics.errorCount.Inc()
		log.Errorw("Refusing to send: email configuration is incomplete",
			"from_set", s.config.FromAddress != "",
			"to_set", s.config.ToAddress != "",
			"api_key_set", s.config.ResendAPIKey != "")
		return nil, apperrors.NotConfigured()
	}

	subject, htmlBody, err := ComposeEmail(sub)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to compose submission email", "error", err)
		return nil, apperrors.InternalServerError("Failed to compose email")
	}

	params := &resend.SendEmailRequest{
		From:    s.config.Sender(),
		To:      []string{s.config.ToAddress},
		ReplyTo: sub.Email,
		Subject: subject,
		Html:    htmlBody,
	}
	if sub.Source != "" {
		params.Tags = []resend.Tag{{Name: "source", Value: string(sub.Source)}}
	}
	for _, a := range sub.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	resp, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Provider rejected submission email",
			"error", err,
			"reply_to", logger.MaskEmail(sub.Email),
			"subject", subject)
		return nil, apperrors.ProviderRejected(err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Submission email delivered",
		"id", resp.Id,
		"reply_to", logger.MaskEmail(sub.Email),
		"subject", subject,
		"attachments", len(sub.Attachments))

	return &types.RelayResult{OK: true, ID: resp.Id}, nil
}
