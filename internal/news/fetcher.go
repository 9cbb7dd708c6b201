package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newscast/internal/logging"
	"newscast/internal/services"
	"newscast/internal/textutil"
)

const userAgent = "newscast/1.0 (+https://github.com/newscast)"

// Options configures feed queries.
type Options struct {
	BaseURL  string
	Language string
	Region   string
	// Locale is the ceid value, e.g. "KR:ko".
	Locale   string
	PerTopic int
	Delay    time.Duration
	Timeout  time.Duration

	// TitleSimilarity drops stories whose headline is at least this similar
	// to an earlier one. Zero disables the check.
	TitleSimilarity float64
}

// Fetcher retrieves news items.
type Fetcher struct {
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

// NewFetcher constructs a fetcher. A nil client uses one with opts.Timeout.
func NewFetcher(opts Options, httpClient *http.Client, logger *slog.Logger) *Fetcher {
	if opts.PerTopic <= 0 {
		opts.PerTopic = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Fetcher{
		opts:       opts,
		httpClient: httpClient,
		logger:     logging.NewComponentLogger(logger, "news"),
		sleep:      sleepContext,
	}
}

// FeedURL returns the search feed URL for topic.
func (f *Fetcher) FeedURL(topic string) string {
	q := url.Values{}
	q.Set("q", topic)
	q.Set("hl", f.opts.Language)
	q.Set("gl", f.opts.Region)
	q.Set("ceid", f.opts.Locale)
	return f.opts.BaseURL + "?" + q.Encode()
}

// Fetch returns up to PerTopic items per topic, de-duplicated by link.
func (f *Fetcher) Fetch(ctx context.Context, topics []string) ([]Item, error) {
	if len(topics) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", "topics", "no topics configured", nil)
	}
	var (
		items    []Item
		failures []error
	)
	for i, topic := range topics {
		if i > 0 && f.opts.Delay > 0 {
			if err := f.sleep(ctx, f.opts.Delay); err != nil {
				return nil, err
			}
		}
		topicItems, err := f.fetchTopic(ctx, topic)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures = append(failures, fmt.Errorf("topic %q: %w", topic, err))
			logging.WarnWithContext(f.logger, "topic feed failed; skipping", "news_topic_failed",
				logging.String("topic", topic),
				logging.Error(err),
				logging.String(logging.FieldImpact, "stories for this topic are missing from the briefing"),
			)
			continue
		}
		f.logger.Debug("topic fetched", logging.String("topic", topic), logging.Int("item_count", len(topicItems)))
		items = append(items, topicItems...)
	}
	if len(failures) == len(topics) {
		return nil, services.Wrap(services.ErrTransient, "fetch", "feeds", "every topic failed", errors.Join(failures...))
	}

	items = Dedupe(items)
	if f.opts.TitleSimilarity > 0 {
		before := len(items)
		items = DropSimilar(items, f.opts.TitleSimilarity)
		if dropped := before - len(items); dropped > 0 {
			f.logger.Debug("similar headlines dropped", logging.Int("dropped", dropped))
		}
	}
	limit := max(1, f.opts.PerTopic*len(topics))
	if len(items) > limit {
		items = items[:limit]
	}
	f.logger.Info("news fetched",
		logging.String(logging.FieldEventType, "news_fetched"),
		logging.Int("topic_count", len(topics)),
		logging.Int("item_count", len(items)),
		logging.Int("failed_topics", len(failures)),
	)
	return items, nil
}

func (f *Fetcher) fetchTopic(ctx context.Context, topic string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FeedURL(topic), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]Item, 0, f.opts.PerTopic)
	for _, entry := range feed.Items {
		if len(out) == f.opts.PerTopic {
			break
		}
		out = append(out, toItem(topic, entry))
	}
	return out, nil
}

func toItem(topic string, entry *gofeed.Item) Item {
	title, publisher := splitPublisher(entry.Title)
	source := publisher
	if entry.Author != nil && strings.TrimSpace(entry.Author.Name) != "" {
		source = strings.TrimSpace(entry.Author.Name)
	}
	summary := HTMLText(entry.Description)
	// Google News summaries often repeat the title and publisher only.
	if summary == strings.TrimSpace(entry.Title) || summary == strings.TrimSpace(title+" "+publisher) {
		summary = ""
	}
	item := Item{
		Topic:   topic,
		Title:   title,
		Summary: summary,
		Link:    CleanLink(entry.Link),
		Source:  source,
	}
	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		item.Published = &t
	}
	return item
}

// Dedupe drops items whose link was already seen, keeping the first.
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := it.Link
		if key == "" {
			key = "title:" + it.Title
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DropSimilar removes items whose title is at least threshold similar to an
// earlier kept item, keeping the first of each group.
func DropSimilar(items []Item, threshold float64) []Item {
	kept := make([]Item, 0, len(items))
	prints := make([]*textutil.Fingerprint, 0, len(items))
	for _, it := range items {
		fp := textutil.NewFingerprint(it.Title)
		duplicate := false
		for _, other := range prints {
			if fp != nil && textutil.CosineSimilarity(fp, other) >= threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, it)
		prints = append(prints, fp)
	}
	return kept
}
