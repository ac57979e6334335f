package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beacon/internal/config"
)

const userAgent = "Beacon-Go/0.1.0"

// Service defines the notification surface exposed to resolution and roster
// components.
type Service interface {
	NotifyReviewNeeded(ctx context.Context, name string, confidence float64) error
	NotifyNewIndividual(ctx context.Context, name string) error
	NotifyCriticalUrgency(ctx context.Context, name string, score int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		review:   cfg.Notifications.Review,
		critical: cfg.Notifications.Critical,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	review   bool
	critical bool
	errors   bool
}

func (n *ntfyService) NotifyReviewNeeded(ctx context.Context, name string, confidence float64) error {
	if !n.review {
		return nil
	}
	name = strings.TrimSpace(name)
	data := payload{
		title:   "Beacon - Review Needed",
		message: fmt.Sprintf("Possible match for %s at %.0f%% confidence, review required", name, confidence),
		tags:    []string{"beacon", "resolution", "review"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNewIndividual(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	data := payload{
		title:   "Beacon - New Individual",
		message: fmt.Sprintf("Added to roster: %s", name),
		tags:    []string{"beacon", "roster", "created"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCriticalUrgency(ctx context.Context, name string, score int) error {
	if !n.critical {
		return nil
	}
	name = strings.TrimSpace(name)
	data := payload{
		title:    "Beacon - Critical Urgency",
		message:  fmt.Sprintf("%s reached urgency %d, check in soon", name, score),
		tags:     []string{"beacon", "urgency", "critical"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Beacon - Error",
		message:  builder.String(),
		tags:     []string{"beacon", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Beacon - Test",
		message:  "Notification system test",
		tags:     []string{"beacon", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReviewNeeded(context.Context, string, float64) error { return nil }
func (noopService) NotifyNewIndividual(context.Context, string) error         { return nil }
func (noopService) NotifyCriticalUrgency(context.Context, string, int) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error          { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
