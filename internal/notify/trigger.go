// Package notify fires the downstream prediction-refresh trigger after
// runs that created new signals.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Trigger sends a best-effort, fire-and-forget notification. Failures
// are logged and never fail the run or roll back committed ingestion.
type Trigger struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
	wg         sync.WaitGroup
}

// NewTrigger creates a trigger. An empty URL disables it.
func NewTrigger(url string, timeout time.Duration, log *slog.Logger) *Trigger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Trigger{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// payload is the body posted to the dependent process.
type payload struct {
	CreatedSignals int       `json:"created_signals"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Fire launches the notification asynchronously and returns
// immediately. Call Close before process exit to flush in-flight sends.
func (t *Trigger) Fire(created int) {
	if t.url == "" || created <= 0 {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.send(created); err != nil {
			t.log.Warn("downstream trigger failed", "url", t.url, "error", err)
		}
	}()
}

// Close waits for in-flight notifications, bounded by the send timeout.
func (t *Trigger) Close() {
	t.wg.Wait()
}

// send performs one notification with its own deadline, detached from
// the run's context: the run is already committed by the time it fires.
func (t *Trigger) send(created int) error {
	body, err := json.Marshal(payload{
		CreatedSignals: created,
		FinishedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
