package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newscast/internal/config"
)

const userAgent = "newscast/0.1.0"

// Service defines the notification surface used by the pipeline and CLI.
type Service interface {
	NotifyRunStarted(ctx context.Context, date string, topics []string) error
	NotifyRunCompleted(ctx context.Context, r RunReport) error
	NotifyRunFailed(ctx context.Context, date, stage string, err error) error
	NotifyUploadSkipped(ctx context.Context, date, reason string) error
	TestNotification(ctx context.Context) error
}

// RunReport summarizes a finished run.
type RunReport struct {
	Date         string
	ItemCount    int
	Duration     time.Duration
	VideoPath    string
	VideoURL     string
	ShortsURL    string
	WarningCount int
}

// NewService builds an ntfy-backed service, or a no-op one without a topic.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
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
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, date string, topics []string) error {
	message := fmt.Sprintf("📰 Building briefing for %s", strings.TrimSpace(date))
	if len(topics) > 0 {
		message = fmt.Sprintf("%s\nTopics: %s", message, strings.Join(topics, ", "))
	}
	return n.send(ctx, payload{
		title:    "Newscast - Run Started",
		message:  message,
		tags:     []string{"newscast", "run", "started"},
		priority: "low",
	})
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, r RunReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Briefing ready: %s (%d items, %s)", strings.TrimSpace(r.Date), r.ItemCount, formatDuration(r.Duration))
	if r.VideoURL != "" {
		fmt.Fprintf(&b, "\nVideo: %s", r.VideoURL)
	} else if r.VideoPath != "" {
		fmt.Fprintf(&b, "\nFile: %s", r.VideoPath)
	}
	if r.ShortsURL != "" {
		fmt.Fprintf(&b, "\nShorts: %s", r.ShortsURL)
	}
	tags := []string{"newscast", "run", "completed"}
	title := "Newscast - Complete"
	if r.WarningCount > 0 {
		fmt.Fprintf(&b, "\nWarnings: %d", r.WarningCount)
		tags = append(tags, "warning")
		title = "Newscast - Complete (with warnings)"
	}
	return n.send(ctx, payload{title: title, message: b.String(), tags: tags})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, date, stage string, err error) error {
	var b strings.Builder
	b.WriteString("❌ Run failed")
	if date = strings.TrimSpace(date); date != "" {
		b.WriteString(" for ")
		b.WriteString(date)
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		b.WriteString(" at ")
		b.WriteString(stage)
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(strings.TrimSpace(err.Error()))
	} else {
		b.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "Newscast - Error",
		message:  b.String(),
		tags:     []string{"newscast", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyUploadSkipped(ctx context.Context, date, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	return n.send(ctx, payload{
		title:   "Newscast - Upload Skipped",
		message: fmt.Sprintf("⚠️ Upload skipped for %s: %s", strings.TrimSpace(date), reason),
		tags:    []string{"newscast", "upload", "skipped"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Newscast - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"newscast", "test"},
		priority: "low",
	})
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

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, []string) error     { return nil }
func (noopService) NotifyRunCompleted(context.Context, RunReport) error          { return nil }
func (noopService) NotifyRunFailed(context.Context, string, string, error) error { return nil }
func (noopService) NotifyUploadSkipped(context.Context, string, string) error    { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
