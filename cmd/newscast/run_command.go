package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newscast/internal/history"
	"newscast/internal/pipeline"
	"newscast/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var date string
	var skipUpload bool
	var noShorts bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build (and publish) the briefing for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}

			if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, r := range failed {
					names = append(names, fmt.Sprintf("%s (%s)", r.Name, r.Detail))
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(names, "; "))
			}

			store, err := history.Open(runCtx, cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()
			if n, err := store.MarkAbandoned(runCtx); err != nil {
				return fmt.Errorf("recover history: %w", err)
			} else if n > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Marked %d interrupted run(s) as failed\n", n)
			}

			deps, err := pipeline.ProductionDeps(cfg, store, logger)
			if err != nil {
				return err
			}
			var opts []pipeline.Option
			if skipUpload {
				opts = append(opts, pipeline.WithSkipUpload())
			}
			if noShorts {
				opts = append(opts, pipeline.WithoutShorts())
			}
			runner, err := pipeline.New(cfg, deps, opts...)
			if err != nil {
				return err
			}

			summary, runErr := runner.Run(runCtx, date)
			printSummary(cmd, summary)
			return runErr
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Briefing date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "Render only, do not upload")
	cmd.Flags().BoolVar(&noShorts, "no-shorts", false, "Skip the vertical shorts render")
	return cmd
}

func printSummary(cmd *cobra.Command, s pipeline.Summary) {
	if s.RunID == "" {
		return
	}
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Date", s.Date},
		{"Status", string(s.Status)},
		{"Items", fmt.Sprintf("%d", len(s.Items))},
		{"Timeline", fmt.Sprintf("%.2fs", s.TimelineSeconds)},
		{"Output", s.OutputDir},
	}
	if s.VideoPath != "" {
		rows = append(rows, []string{"Video", s.VideoPath})
	}
	if s.ShortsPath != "" {
		rows = append(rows, []string{"Shorts", s.ShortsPath})
	}
	if s.VideoID != "" {
		rows = append(rows, []string{"Video ID", s.VideoID})
	}
	if s.ShortsID != "" {
		rows = append(rows, []string{"Shorts ID", s.ShortsID})
	}
	if s.Status != history.StatusCompleted && s.Stage != "" {
		rows = append(rows, []string{"Stage", s.Stage})
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
	for _, w := range s.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w.String())
	}
}
