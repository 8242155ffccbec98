// Package slack sends triage alerts to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

const (
	maxSubjectLen = 200
	httpTimeout   = 10 * time.Second
)

// Notifier posts alerts to a Slack webhook. It implements
// triage.Notifier.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts an alert to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, a *triage.Alert) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(buildMessage(a))
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(a *triage.Alert) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(a),
			{"type": "divider"},
			fieldsBlock(a),
			contextBlock(a),
		},
	}
}

func headerBlock(a *triage.Alert) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": fmt.Sprintf("%s %s alert", kindEmoji(a.Kind), a.Kind),
		},
	}
}

func fieldsBlock(a *triage.Alert) map[string]any {
	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*From:* %s", a.From),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Subject:* %s", truncate(a.Subject, maxSubjectLen)),
		},
		{
			"type": "mrkdwn",
			"text": a.Message,
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func contextBlock(a *triage.Alert) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("sift • email %s • %s", a.EmailID, a.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func kindEmoji(kind triage.AlertKind) string {
	switch kind {
	case triage.AlertUrgent, triage.AlertSecurity:
		return "\U0001f534" // red circle
	case triage.AlertVIP, triage.AlertTimeSensitive:
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
