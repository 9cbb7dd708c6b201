package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"newscast/internal/config"
	"newscast/internal/history"
	"newscast/internal/logging"
	"newscast/internal/narration"
	"newscast/internal/news"
	"newscast/internal/notifications"
	"newscast/internal/render"
	"newscast/internal/services"
	"newscast/internal/services/youtube"
	"newscast/internal/summarize"
)

const dateLayout = "2006-01-02"

// NewsSource returns the day's news items for topics.
type NewsSource interface {
	Fetch(ctx context.Context, topics []string) ([]news.Item, error)
}

// Summarizer turns items into briefings. It never fails; degraded items come
// back with warnings.
type Summarizer interface {
	Summarize(ctx context.Context, items []news.Item) ([]summarize.Briefing, []services.Warning)
}

// Synthesizer renders script lines to audio clips.
type Synthesizer interface {
	Synthesize(ctx context.Context, script narration.Script, dir string) ([]narration.Part, []services.Warning, error)
}

// AudioJoiner concatenates clips with gap seconds of silence between them.
type AudioJoiner func(ctx context.Context, parts []narration.Part, gap float64, out string) error

// Renderer composes a video.
type Renderer interface {
	Compose(ctx context.Context, job render.Job) (render.Result, error)
}

// ThumbnailWriter draws the upload thumbnail.
type ThumbnailWriter func(path, date string, keywords []string, opts render.ThumbnailOptions) error

// Publisher uploads videos and maintains playlists.
type Publisher interface {
	Upload(ctx context.Context, v youtube.Video) (string, error)
	SetThumbnail(ctx context.Context, videoID, path string) error
	EnsurePlaylist(ctx context.Context, title, description string) (string, error)
	AddToPlaylist(ctx context.Context, playlistID, videoID string) error
}

// PublisherFactory connects to the upload service. It is called only when an
// upload is about to happen.
type PublisherFactory func(ctx context.Context) (Publisher, error)

// Ledger persists run records.
type Ledger interface {
	Begin(ctx context.Context, run history.Run) error
	Finish(ctx context.Context, run history.Run) error
}

// Deps are the collaborators a Runner drives. News, Summarizer, Synthesizer,
// JoinAudio and Renderer are required.
type Deps struct {
	News        NewsSource
	Summarizer  Summarizer
	Synthesizer Synthesizer
	JoinAudio   AudioJoiner
	Renderer    Renderer
	Thumbnail   ThumbnailWriter
	Publisher   PublisherFactory
	Ledger      Ledger
	Notifier    notifications.Service
	Logger      *slog.Logger
	Now         func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithSkipUpload disables the upload stage.
func WithSkipUpload() Option {
	return func(r *Runner) { r.skipUpload = true }
}

// WithoutShorts disables the vertical render and its upload.
func WithoutShorts() Option {
	return func(r *Runner) { r.noShorts = true }
}

// Runner executes daily runs.
type Runner struct {
	cfg        *config.Config
	deps       Deps
	logger     *slog.Logger
	skipUpload bool
	noShorts   bool
}

// New validates deps and fills defaults for the optional ones.
func New(cfg *config.Config, deps Deps, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires a config")
	}
	var missing []string
	if deps.News == nil {
		missing = append(missing, "news source")
	}
	if deps.Summarizer == nil {
		missing = append(missing, "summarizer")
	}
	if deps.Synthesizer == nil {
		missing = append(missing, "synthesizer")
	}
	if deps.JoinAudio == nil {
		missing = append(missing, "audio joiner")
	}
	if deps.Renderer == nil {
		missing = append(missing, "renderer")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("pipeline missing collaborators: %s", strings.Join(missing, ", "))
	}
	if deps.Thumbnail == nil {
		deps.Thumbnail = render.Thumbnail
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := &Runner{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(deps.Logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run produces the briefing for date (YYYY-MM-DD, empty for today). The
// returned summary is populated as far as the run got, even on error.
func (r *Runner) Run(ctx context.Context, date string) (Summary, error) {
	date, err := r.resolveDate(date)
	if err != nil {
		return Summary{}, err
	}
	runDir := r.cfg.RunDir(date)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create run directory: %w", err)
	}
	lock, err := acquireLock(runDir)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = lock.Unlock() }()

	summary := Summary{
		RunID:     uuid.NewString(),
		Date:      date,
		Status:    history.StatusRunning,
		StartedAt: r.deps.Now(),
		OutputDir: runDir,
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("date", date),
		logging.String("output_dir", runDir),
		logging.Int("topic_count", len(r.cfg.News.Topics)),
	)

	if r.deps.Ledger != nil {
		if err := r.deps.Ledger.Begin(ctx, summary.Record()); err != nil {
			logging.WarnWithContext(logger, "history begin failed", "history_write_failed", logging.Error(err))
		}
	}
	if err := r.deps.Notifier.NotifyRunStarted(ctx, date, r.cfg.News.Topics); err != nil {
		logger.Debug("start notification failed", logging.Error(err))
	}

	runErr := r.execute(ctx, &summary)
	summary.FinishedAt = r.deps.Now()
	if runErr != nil {
		summary.Status = services.FailureStatus(runErr)
		summary.Error = runErr.Error()
	} else {
		summary.Status = history.StatusCompleted
		summary.Stage = ""
	}
	r.record(ctx, logger, summary, runErr)
	return summary, runErr
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, summary Summary, runErr error) {
	if err := writeSummary(summary.OutputDir, summary); err != nil {
		logging.WarnWithContext(logger, "summary write failed", "summary_write_failed", logging.Error(err))
	}
	if r.deps.Ledger != nil {
		if err := r.deps.Ledger.Finish(context.WithoutCancel(ctx), summary.Record()); err != nil {
			logging.WarnWithContext(logger, "history finish failed", "history_write_failed", logging.Error(err))
		}
	}

	notifyCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		var stageErr *StageError
		stage := summary.Stage
		if errors.As(runErr, &stageErr) {
			stage = stageErr.Stage
		}
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.String("stage", stage),
			logging.String("resolved_status", string(summary.Status)),
			logging.Error(runErr),
		)
		if err := r.deps.Notifier.NotifyRunFailed(notifyCtx, summary.Date, stage, runErr); err != nil {
			logger.Debug("failure notification failed", logging.Error(err))
		}
		return
	}

	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("item_count", len(summary.Items)),
		logging.Float64("timeline_seconds", summary.TimelineSeconds),
		logging.Int("warning_count", len(summary.Warnings)),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	report := notifications.RunReport{
		Date:         summary.Date,
		ItemCount:    len(summary.Items),
		Duration:     summary.FinishedAt.Sub(summary.StartedAt),
		VideoPath:    summary.VideoPath,
		WarningCount: len(summary.Warnings),
	}
	if summary.VideoID != "" {
		report.VideoURL = youtube.WatchURL(summary.VideoID)
	}
	if summary.ShortsID != "" {
		report.ShortsURL = youtube.WatchURL(summary.ShortsID)
	}
	if err := r.deps.Notifier.NotifyRunCompleted(notifyCtx, report); err != nil {
		logger.Debug("completion notification failed", logging.Error(err))
	}
}

func (r *Runner) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return r.deps.Now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", services.Wrap(services.ErrValidation, "run", "date", fmt.Sprintf("expected YYYY-MM-DD, got %q", date), nil)
	}
	return date, nil
}

// stage runs fn with stage context and logging. Errors come back as *StageError.
func (r *Runner) stage(ctx context.Context, summary *Summary, name string, fn func(context.Context, *slog.Logger) error) error {
	if err := ctx.Err(); err != nil {
		return newStageError(name, err)
	}
	summary.Stage = name
	stageCtx := services.WithRequestID(services.WithStage(ctx, name), uuid.NewString())
	logger := logging.WithContext(stageCtx, r.logger)
	started := time.Now()
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := fn(stageCtx, logger); err != nil {
		return newStageError(name, err)
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (r *Runner) paths(summary *Summary) (audioDir, script string) {
	return filepath.Join(summary.OutputDir, AudioDirName), filepath.Join(summary.OutputDir, ScriptFileName)
}
