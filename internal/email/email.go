// Package email provides the outgoing mail senders.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfrund/biodex/internal/domain"
)

const defaultSender = "Biodex <onboarding@resend.dev>"

// LogSender logs emails instead of sending them. Used in development.
type LogSender struct {
	senderAddress string
	logger        *slog.Logger
}

var _ domain.EmailSender = (*LogSender)(nil)

func NewLogSender(senderAddress string, logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{senderAddress: senderAddress, logger: logger}
}

// Send logs the email.
func (s *LogSender) Send(to, subject, htmlBody string) error {
	s.logger.Info("Email sent (logged)",
		"from", s.senderAddress,
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}

// ResendSender sends emails using the Resend API.
type ResendSender struct {
	apiKey        string
	senderAddress string
	endpoint      string
	client        *http.Client
}

var _ domain.EmailSender = (*ResendSender)(nil)

func NewResendSender(apiKey, senderAddress string) *ResendSender {
	return &ResendSender{
		apiKey:        apiKey,
		senderAddress: senderAddress,
		endpoint:      "https://api.resend.com/emails",
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send dispatches an email using the Resend API.
func (s *ResendSender) Send(to, subject, htmlBody string) error {
	sender := s.senderAddress
	if sender == "" {
		sender = defaultSender
	}

	body, err := json.Marshal(resendPayload{
		From:    sender,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API returned an error: status %d", resp.StatusCode)
	}

	slog.Info("Successfully sent email via Resend", "to", to, "subject", subject)
	return nil
}
