package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dropalert/dropalert/internal/utils"
)

// Mailer posts messages to the transactional mail provider's HTTP API.
type Mailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// NewMailer creates a mailer for the provider at endpoint.
func NewMailer(endpoint, apiKey, from string) *Mailer {
	return &Mailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send delivers one email. Non-2xx provider responses are errors.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(mailPayload{
		From:    m.from,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider unreachable: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}
