package preflight

import (
	"context"

	"newscast/internal/config"
	"newscast/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes the checks that apply to cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range deps.CheckBinaries(deps.MediaRequirements(cfg.Video.FFmpegBinary, cfg.Video.FFprobeBinary)) {
		results = append(results, fromStatus(status))
	}

	results = append(results,
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Free space", cfg.Paths.OutputDir, cfg.Paths.MinFreeGiB),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckLLM(ctx, "Summary LLM", cfg.LLM),
		CheckOptionalFile("Background image", cfg.Video.BackgroundImage, "solid colour fallback"),
		CheckOptionalFile("Font file", cfg.Video.FontFile, "built-in fallback font"),
	)
	if cfg.YouTube.Enabled {
		results = append(results, CheckYouTube(cfg))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}

func fromStatus(s deps.Status) Result {
	r := Result{Name: s.Name, Passed: s.Available, Optional: s.Optional, Detail: s.Detail}
	if s.Available {
		r.Detail = s.Path
	}
	return r
}
