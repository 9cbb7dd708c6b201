package narration

import (
	"strings"
	"testing"

	"newscast/internal/news"
	"newscast/internal/summarize"
)

func sampleBriefings() []summarize.Briefing {
	return []summarize.Briefing{
		{Item: news.Item{Topic: "경제", Title: "금리 동결"}, Bullet: "금리가 동결됐습니다.", Explain: "대출 부담은 그대로입니다.", Caption: "기준금리 동결"},
		{Item: news.Item{Topic: "IT", Title: "새 스마트폰"}, Bullet: "새 폰이 나왔습니다.", Explain: "가격이 올랐습니다.", Caption: "신제품 공개"},
	}
}

func TestBuildScriptDefaultTemplates(t *testing.T) {
	script, err := BuildScript("2026-10-19", sampleBriefings(), Templates{})
	if err != nil {
		t.Fatalf("BuildScript: %v", err)
	}
	if len(script.Lines) != 4 {
		t.Fatalf("expected intro, two items and outro, got %d lines", len(script.Lines))
	}
	if !strings.Contains(script.Lines[0].Text, "2026-10-19") {
		t.Fatalf("intro missing date: %q", script.Lines[0].Text)
	}
	if script.Lines[0].Headline != DefaultBookendHeadline || script.Lines[3].Headline != DefaultBookendHeadline {
		t.Fatalf("bookends should carry the default headline: %+v", script.Lines)
	}
	want := "1번 뉴스. 금리가 동결됐습니다. 해설: 대출 부담은 그대로입니다."
	if script.Lines[1].Text != want {
		t.Fatalf("item text = %q, want %q", script.Lines[1].Text, want)
	}
	if script.Lines[2].Headline != "새 스마트폰" || script.Lines[2].Summary != "신제품 공개" {
		t.Fatalf("unexpected item overlay %+v", script.Lines[2])
	}
}

func TestBuildScriptCustomTemplates(t *testing.T) {
	tpl := Templates{
		Intro: "Briefing for {date}",
		Item:  "[{topic}]  {title}:   {bullet}",
		Outro: "bye",
	}
	script, err := BuildScript("today", sampleBriefings()[:1], tpl)
	if err != nil {
		t.Fatalf("BuildScript: %v", err)
	}
	if script.Lines[0].Text != "Briefing for today" {
		t.Fatalf("intro = %q", script.Lines[0].Text)
	}
	if script.Lines[1].Text != "[경제] 금리 동결: 금리가 동결됐습니다." {
		t.Fatalf("item = %q", script.Lines[1].Text)
	}
	if script.Lines[2].Text != "bye" {
		t.Fatalf("outro = %q", script.Lines[2].Text)
	}
}

func TestBuildScriptRequiresBriefings(t *testing.T) {
	if _, err := BuildScript("today", nil, DefaultTemplates()); err == nil {
		t.Fatal("expected error for empty briefings")
	}
}
