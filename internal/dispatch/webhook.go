package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gantryworks/gantry/internal/trigger"
)

const (
	webhookTimeout      = 30 * time.Second
	webhookBodyLimit    = 1 << 20 // cap response reads at 1 MiB
	headerConfigPrefix  = "header:"
	webhookStatusField  = "status"
	webhookMessageField = "message"
)

// WebhookExecutor POSTs a JSON envelope describing the trigger to the
// URL in the trigger configuration.
//
// Config keys: "url" (required), "token" (optional bearer token), and
// "header:<Name>" for extra headers. Values pass through ${ENV}
// expansion so secrets stay out of trigger records.
//
// The collaborator answers in-band: a 2xx response with a JSON body
// carrying status "error" (or ok=false) is a permanent failure and the
// "message" field becomes the recorded reason. 408, 429, and 5xx are
// transient; other non-2xx statuses are permanent.
type WebhookExecutor struct {
	Client *http.Client
}

// NewWebhook returns a webhook executor with a default HTTP client.
func NewWebhook() *WebhookExecutor {
	return &WebhookExecutor{Client: &http.Client{Timeout: webhookTimeout}}
}

// envelope is the JSON body POSTed to the collaborator.
type envelope struct {
	TriggerID string    `json:"trigger_id"`
	TaskID    int       `json:"task_id"`
	Type      string    `json:"type"`
	Created   time.Time `json:"created"`
}

func (w *WebhookExecutor) Execute(ctx context.Context, tr *trigger.Trigger) (Outcome, error) {
	url := os.ExpandEnv(tr.Config["url"])
	if url == "" {
		return Outcome{OK: false, Message: "webhook trigger has no url configured"}, nil
	}

	body, err := json.Marshal(envelope{
		TriggerID: tr.ID,
		TaskID:    tr.TaskID,
		Type:      tr.Type,
		Created:   tr.Created,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("marshaling envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Outcome{OK: false, Message: fmt.Sprintf("building request: %v", err)}, nil
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.ExpandEnv(tr.Config["token"]); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range tr.Config {
		if name, ok := strings.CutPrefix(key, headerConfigPrefix); ok {
			req.Header.Set(name, os.ExpandEnv(value))
		}
	}

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: webhookTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, webhookBodyLimit))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return parseWebhookResponse(respBody), nil
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return Outcome{}, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	default:
		return Outcome{
			OK:      false,
			Message: fmt.Sprintf("webhook rejected with status %d", resp.StatusCode),
		}, nil
	}
}

// parseWebhookResponse extracts the collaborator's verdict from a 2xx
// response body. An empty or non-JSON body counts as plain success.
func parseWebhookResponse(body []byte) Outcome {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return Outcome{OK: true}
	}

	message := gjson.GetBytes(body, webhookMessageField).String()
	status := gjson.GetBytes(body, webhookStatusField)
	if status.Exists() && strings.EqualFold(status.String(), "error") {
		return Outcome{OK: false, Message: message}
	}
	if ok := gjson.GetBytes(body, "ok"); ok.Exists() && !ok.Bool() {
		return Outcome{OK: false, Message: message}
	}
	return Outcome{OK: true, Message: message}
}
