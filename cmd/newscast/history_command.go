package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"newscast/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cmd.Context(), cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.Date,
					string(run.Status),
					run.Stage,
					fmt.Sprintf("%d", run.ItemCount),
					formatSeconds(run.TimelineSeconds),
					formatRunDuration(run.Duration()),
					fmt.Sprintf("%d", len(run.Warnings)),
					run.VideoID,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Date", "Status", "Stage", "Items", "Timeline", "Took", "Warnings", "Video"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", history.DefaultListLimit, "Maximum number of runs to show")
	return cmd
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", seconds)
}

func formatRunDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
