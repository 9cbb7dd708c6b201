package narration

import (
	"errors"
	"strconv"
	"strings"

	"newscast/internal/summarize"
)

// Default templates. Placeholders: {date} {index} {title} {topic} {bullet} {explain}.
const (
	DefaultIntroTemplate   = "안녕하세요. {date} 주요 뉴스를 3분 안에 요약해 드립니다."
	DefaultItemTemplate    = "{index}번 뉴스. {bullet} 해설: {explain}"
	DefaultOutroTemplate   = "시청해 주셔서 감사합니다. 내일 다시 뵙겠습니다."
	DefaultBookendHeadline = "뉴스 브리핑"
)

// Templates shape the spoken script.
type Templates struct {
	Intro           string
	Item            string
	Outro           string
	BookendHeadline string
}

// DefaultTemplates returns the stock Korean templates.
func DefaultTemplates() Templates {
	return Templates{
		Intro:           DefaultIntroTemplate,
		Item:            DefaultItemTemplate,
		Outro:           DefaultOutroTemplate,
		BookendHeadline: DefaultBookendHeadline,
	}
}

// Line is one spoken segment before synthesis.
type Line struct {
	Text     string  `yaml:"text"`
	Headline string  `yaml:"headline,omitempty"`
	Summary  string  `yaml:"summary,omitempty"`
	Duration float64 `yaml:"duration,omitempty"`
}

// Script is the ordered narration for one day.
type Script struct {
	Date  string `yaml:"date"`
	Lines []Line `yaml:"segments"`
}

// BuildScript renders the intro, one line per briefing and the outro.
// Briefing lines carry the item title as headline and its caption as summary.
func BuildScript(date string, briefings []summarize.Briefing, t Templates) (Script, error) {
	if len(briefings) == 0 {
		return Script{}, errors.New("build script: no briefings")
	}
	t = t.withDefaults()
	vars := func(index int, b *summarize.Briefing) *strings.Replacer {
		pairs := []string{"{date}", date, "{index}", strconv.Itoa(index)}
		if b != nil {
			pairs = append(pairs,
				"{title}", b.Title,
				"{topic}", b.Topic,
				"{bullet}", b.Bullet,
				"{explain}", b.Explain,
			)
		}
		return strings.NewReplacer(pairs...)
	}

	script := Script{Date: date, Lines: make([]Line, 0, len(briefings)+2)}
	script.Lines = append(script.Lines, Line{
		Text:     tidy(vars(0, nil).Replace(t.Intro)),
		Headline: t.BookendHeadline,
	})
	for i := range briefings {
		b := &briefings[i]
		script.Lines = append(script.Lines, Line{
			Text:     tidy(vars(i+1, b).Replace(t.Item)),
			Headline: strings.TrimSpace(b.Title),
			Summary:  strings.TrimSpace(b.Caption),
		})
	}
	script.Lines = append(script.Lines, Line{
		Text:     tidy(vars(0, nil).Replace(t.Outro)),
		Headline: t.BookendHeadline,
	})
	return script, nil
}

func (t Templates) withDefaults() Templates {
	d := DefaultTemplates()
	if strings.TrimSpace(t.Intro) == "" {
		t.Intro = d.Intro
	}
	if strings.TrimSpace(t.Item) == "" {
		t.Item = d.Item
	}
	if strings.TrimSpace(t.Outro) == "" {
		t.Outro = d.Outro
	}
	if strings.TrimSpace(t.BookendHeadline) == "" {
		t.BookendHeadline = d.BookendHeadline
	}
	return t
}

func tidy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
