package news

import (
	"strings"
	"time"
)

// Item is one fetched story.
type Item struct {
	Topic     string     `json:"topic"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Link      string     `json:"link"`
	Source    string     `json:"source,omitempty"`
	Published *time.Time `json:"published,omitempty"`
}

// Topics returns the distinct topics of items in first-seen order.
func Topics(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		t := strings.TrimSpace(it.Topic)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// splitPublisher separates the " - Publisher" suffix Google News appends to titles.
func splitPublisher(title string) (string, string) {
	title = strings.TrimSpace(title)
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	publisher := strings.TrimSpace(title[idx+3:])
	if publisher == "" {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), publisher
}
