package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailSink sends alerts through the Resend transactional email API.
type EmailSink struct {
	endpoint string
	apiKey   string
	to       string
	httpc    *http.Client
}

func NewEmailSink(apiKey, to string) *EmailSink {
	return &EmailSink{
		endpoint: resendEndpoint,
		apiKey:   apiKey,
		to:       to,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, alert Alert) error {
	body := map[string]any{
		"from":    "Coach App <noreply@resend.dev>",
		"to":      s.to,
		"subject": "Coach App: " + alert.Subject,
		"html": fmt.Sprintf("<h2>%s</h2><p><strong>Time:</strong> %s</p><p><strong>Details:</strong> %s</p>",
			alert.Subject, alert.At.Format(time.RFC3339), alert.Detail),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode alert email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build alert email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert email rejected with status %d", resp.StatusCode)
	}
	return nil
}
