// Package notify delivers triggered alerts to recipients over the configured
// transport.
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// Webhook posts alert notifications to an HTTP endpoint.
// If a secret is configured, requests are signed with HMAC-SHA256.
type Webhook struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhook creates a webhook dispatcher for the given endpoint.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Send delivers one alert to one recipient.
func (w *Webhook) Send(ctx context.Context, recipient domain.Recipient, alert domain.Alert) error {
	payload := webhookPayload{
		Event:     "disaster_alert",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Recipient: recipient.Email,
		Alert:     alert,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "disaster-risk-service/1.0")

	if w.secret != "" {
		sig := computeHMAC(body, []byte(w.secret))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

type webhookPayload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Recipient string       `json:"recipient"`
	Alert     domain.Alert `json:"alert"`
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
