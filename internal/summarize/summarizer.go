package summarize

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services"
	"newscast/internal/services/llm"
)

const stageName = "summarize"

// Completer issues a JSON-only chat completion.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Briefing is a news item with its spoken summary.
type Briefing struct {
	news.Item
	Bullet  string `json:"bullet"`
	Explain string `json:"explain"`
	Caption string `json:"caption"`
	// Fallback is set when the text came from the item instead of the model.
	Fallback bool `json:"fallback,omitempty"`
}

type reply struct {
	Bullet  string `json:"bullet"`
	Explain string `json:"explain"`
	Caption string `json:"caption"`
}

// Summarizer produces briefings.
type Summarizer struct {
	client Completer
	logger *slog.Logger
}

// New constructs a summarizer.
func New(client Completer, logger *slog.Logger) *Summarizer {
	return &Summarizer{client: client, logger: logging.NewComponentLogger(logger, stageName)}
}

// Summarize returns one briefing per item in input order.
func (s *Summarizer) Summarize(ctx context.Context, items []news.Item) ([]Briefing, []services.Warning) {
	briefings := make([]Briefing, 0, len(items))
	var warnings []services.Warning
	for i, item := range items {
		index := i + 1
		b, err := s.summarizeOne(ctx, item)
		if err != nil {
			b = fallbackBriefing(item)
			warnings = append(warnings, services.NewWarning(stageName, index, "model summary unavailable; used the article text", err))
			logging.WarnWithContext(logging.WithContext(services.WithSegmentIndex(ctx, index), s.logger),
				"summary fallback used", "summary_fallback",
				logging.String("title", item.Title),
				logging.Error(err),
				logging.String(logging.FieldImpact, "briefing reads the feed summary instead of a model summary"),
			)
		}
		briefings = append(briefings, b)
	}
	s.logger.Info("items summarized",
		logging.String(logging.FieldEventType, "summaries_ready"),
		logging.Int("item_count", len(items)),
		logging.Int("fallback_count", len(warnings)),
	)
	return briefings, warnings
}

func (s *Summarizer) summarizeOne(ctx context.Context, item news.Item) (Briefing, error) {
	if s.client == nil {
		return Briefing{}, errors.New("no llm client configured")
	}
	content, err := s.client.CompleteJSON(ctx, SystemPrompt, UserPrompt(item))
	if err != nil {
		return Briefing{}, err
	}
	var r reply
	if err := llm.DecodeLLMJSON(content, &r); err != nil {
		return Briefing{}, err
	}
	r.Bullet = strings.TrimSpace(r.Bullet)
	r.Explain = strings.TrimSpace(r.Explain)
	r.Caption = strings.TrimSpace(r.Caption)
	if r.Bullet == "" {
		return Briefing{}, errors.New("reply has no bullet")
	}
	if r.Caption == "" {
		r.Caption = r.Bullet
	}
	if r.Explain == "" {
		r.Explain = fallbackExplain(item)
	}
	return Briefing{Item: item, Bullet: r.Bullet, Explain: r.Explain, Caption: r.Caption}, nil
}

func fallbackBriefing(item news.Item) Briefing {
	bullet := strings.TrimSpace(item.Summary)
	if bullet == "" {
		bullet = strings.TrimSpace(item.Title)
	}
	return Briefing{
		Item:     item,
		Bullet:   bullet,
		Explain:  fallbackExplain(item),
		Caption:  strings.TrimSpace(item.Title),
		Fallback: true,
	}
}

func fallbackExplain(item news.Item) string {
	if source := strings.TrimSpace(item.Source); source != "" {
		return source + " 보도 내용입니다."
	}
	return "자세한 내용은 원문 기사를 참고해 주세요."
}
