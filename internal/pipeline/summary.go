package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"newscast/internal/fileutil"
	"newscast/internal/history"
	"newscast/internal/narration"
	"newscast/internal/news"
	"newscast/internal/services"
	"newscast/internal/summarize"
	"newscast/internal/timeline"
)

// Output file names inside the per-day directory.
const (
	AudioDirName      = "audio"
	ScriptFileName    = "script.yaml"
	NarrationFileName = "narration.mp3"
	CaptionFileName   = "captions.srt"
	ThumbnailFileName = "thumbnail.jpg"
	VideoFileName     = "news_briefing.mp4"
	ShortsFileName    = "news_briefing_shorts.mp4"
	SummaryFileName   = "summary.json"
	VideoIDsFileName  = "video_ids.txt"
)

// TimelineEntry is the serialized form of a timeline.Entry.
type TimelineEntry struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Headline string  `json:"headline,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Text     string  `json:"text"`
}

// Summary records what a run produced.
type Summary struct {
	RunID           string               `json:"run_id"`
	Date            string               `json:"date"`
	Status          history.Status       `json:"status"`
	Stage           string               `json:"stage,omitempty"`
	StartedAt       time.Time            `json:"started_at"`
	FinishedAt      time.Time            `json:"finished_at"`
	OutputDir       string               `json:"output_dir"`
	Items           []news.Item          `json:"items"`
	Briefings       []summarize.Briefing `json:"briefings,omitempty"`
	Parts           []narration.Part     `json:"parts,omitempty"`
	Timeline        []TimelineEntry      `json:"timeline,omitempty"`
	TimelineSeconds float64              `json:"timeline_seconds"`
	AudioPath       string               `json:"audio_path,omitempty"`
	CaptionPath     string               `json:"caption_path,omitempty"`
	ThumbnailPath   string               `json:"thumbnail_path,omitempty"`
	VideoPath       string               `json:"video_path,omitempty"`
	ShortsPath      string               `json:"shorts_path,omitempty"`
	VideoID         string               `json:"video_id,omitempty"`
	ShortsID        string               `json:"shorts_id,omitempty"`
	Playlists       map[string]string    `json:"playlists,omitempty"`
	Warnings        []services.Warning   `json:"warnings,omitempty"`
	Error           string               `json:"error,omitempty"`
}

func (s *Summary) warn(w ...services.Warning) {
	s.Warnings = append(s.Warnings, w...)
}

func (s *Summary) setTimeline(entries []timeline.Entry) {
	s.Timeline = make([]TimelineEntry, 0, len(entries))
	for _, e := range entries {
		s.Timeline = append(s.Timeline, TimelineEntry{
			Start:    e.Start,
			End:      e.End,
			Headline: e.Headline,
			Summary:  e.Summary,
			Text:     e.Text,
		})
	}
	s.TimelineSeconds = timeline.Total(entries)
}

// Record converts the summary to a ledger row.
func (s *Summary) Record() history.Run {
	return history.Run{
		ID:              s.RunID,
		Date:            s.Date,
		Status:          s.Status,
		Stage:           s.Stage,
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
		ItemCount:       len(s.Items),
		SegmentCount:    len(s.Parts),
		TimelineSeconds: s.TimelineSeconds,
		OutputDir:       s.OutputDir,
		VideoPath:       s.VideoPath,
		ShortsPath:      s.ShortsPath,
		VideoID:         s.VideoID,
		ShortsID:        s.ShortsID,
		Warnings:        services.WarningStrings(s.Warnings),
		ErrorMessage:    s.Error,
	}
}

func writeSummary(dir string, s Summary) error {
	return fileutil.WriteJSON(filepath.Join(dir, SummaryFileName), s)
}

func writeVideoIDs(dir, landscape, shorts string) error {
	body := fmt.Sprintf("landscape=%s\nshorts=%s\n", landscape, shorts)
	return fileutil.WriteFileAtomic(filepath.Join(dir, VideoIDsFileName), []byte(body), 0o644)
}
