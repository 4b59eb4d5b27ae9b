package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const sendTimeout = 10 * time.Second

// HTTPMailer delivers mail through an external provider's JSON API.
type HTTPMailer struct {
	providerURL string
	apiKey      string
	from        string
	client      *http.Client
}

// NewHTTPMailer creates a mailer posting to providerURL, authenticated with apiKey.
func NewHTTPMailer(providerURL, apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		providerURL: providerURL,
		apiKey:      apiKey,
		from:        from,
		client:      &http.Client{Timeout: sendTimeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send posts the message to the provider and fails on any non-2xx response.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(sendRequest{From: m.from, To: to, Subject: subject, Text: body})
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.providerURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in
// development when no mail provider is configured.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer writing to log.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message and always succeeds.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail (log only)")
	return nil
}
