package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// WebhookNotifier posts escalation and follow-up payloads to an external
// notification service.
type WebhookNotifier struct {
	BaseURL string
	Client  *http.Client
}

func (w WebhookNotifier) NotifyEscalation(ctx context.Context, e Escalation) error {
	return w.post(ctx, "/escalations", e)
}

func (w WebhookNotifier) NotifyFollowUp(ctx context.Context, f FollowUp) error {
	return w.post(ctx, "/follow-ups", f)
}

func (w WebhookNotifier) post(ctx context.Context, path string, payload any) error {
	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+path, bytes.NewBuffer(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("notification service error")
	}
	return nil
}
