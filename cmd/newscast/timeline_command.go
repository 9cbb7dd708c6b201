package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"newscast/internal/captions"
	"newscast/internal/config"
	"newscast/internal/narration"
	"newscast/internal/pipeline"
	"newscast/internal/render"
	"newscast/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var srtPath string

	cmd := &cobra.Command{
		Use:   "timeline <script.yaml>",
		Short: "Print the timeline and overlay layout for a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := render.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			sf, err := narration.ReadScriptFile(args[0])
			if err != nil {
				return err
			}
			entries, err := scriptTimeline(cfg, sf)
			if err != nil {
				return err
			}

			res, err := render.ParseResolution(resolutionFor(cfg, mode))
			if err != nil {
				return err
			}
			mapper, err := render.NewMapper(cfg.Render.MinDisplaySeconds, cfg.Render.MaxDisplaySeconds)
			if err != nil {
				return err
			}

			layouts, err := scriptLayouts(mapper, res, mode, entries)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				layout := layouts[i]
				rows = append(rows, []string{
					fmt.Sprintf("%d", layout.Index),
					captions.FormatTimestamp(entry.Start),
					captions.FormatTimestamp(entry.End),
					fmt.Sprintf("%.2f", layout.DisplayDuration),
					fmt.Sprintf("%d/%d", layout.HeadlineY, layout.SummaryY),
					entry.Headline,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s, %d segments, %.2fs\n", mode, res, len(entries), timeline.Total(entries))
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Overlay", "Headline Y/Summary Y", "Headline"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			if srtPath == "" {
				return nil
			}
			source, err := captions.ParseSource(cfg.Narration.CaptionSource)
			if err != nil {
				return err
			}
			granularity, err := captions.ParseGranularity(cfg.Narration.CaptionGranularity)
			if err != nil {
				return err
			}
			cues := captions.FromTimeline(entries, captions.Options{Source: source, Granularity: granularity})
			if err := captions.Write(srtPath, cues); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d cues to %s\n", len(cues), srtPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", string(render.ModeLandscape), "Layout mode (landscape or shorts)")
	cmd.Flags().StringVar(&srtPath, "srt", "", "Write captions to this SRT file")
	return cmd
}

// scriptTimeline builds entries from a script file. Lines without a stored
// duration fall back to the configured estimator.
func scriptTimeline(cfg *config.Config, sf narration.ScriptFile) ([]timeline.Entry, error) {
	estimator := pipeline.Estimator(cfg)
	segments := make([]timeline.Segment, 0, len(sf.Lines))
	for i, line := range sf.Lines {
		duration, err := estimator.Resolve(line.Text, line.Duration)
		if err != nil {
			return nil, withSegmentIndex(err, i+1)
		}
		seg, err := timeline.NewSegment(line.Text, duration, line.Headline, line.Summary)
		if err != nil {
			return nil, withSegmentIndex(err, i+1)
		}
		segments = append(segments, seg)
	}
	gap := cfg.Narration.GapSeconds
	if sf.GapSeconds != nil {
		gap = *sf.GapSeconds
	}
	return timeline.Build(segments, timeline.Options{GapSeconds: gap})
}

// scriptLayouts maps entries to overlay layouts with 1-based segment indexes.
func scriptLayouts(mapper *render.Mapper, res render.Resolution, mode render.Mode, entries []timeline.Entry) ([]render.Layout, error) {
	layouts := make([]render.Layout, 0, len(entries))
	for i, entry := range entries {
		layout, err := mapper.Map(res, mode, entry, i+1)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}

func withSegmentIndex(err error, index int) error {
	var segErr *timeline.SegmentError
	if errors.As(err, &segErr) {
		segErr.Index = index
		return segErr
	}
	return fmt.Errorf("segment %d: %w", index, err)
}

func resolutionFor(cfg *config.Config, mode render.Mode) string {
	if mode == render.ModeShorts {
		return cfg.Video.ShortsResolution
	}
	return cfg.Video.Resolution
}
