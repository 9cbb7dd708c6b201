package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const runColumns = "id, run_date, status, stage, started_at, finished_at, item_count, segment_count, timeline_seconds, output_dir, video_path, shorts_path, video_id, shorts_id, warnings_json, error_message"

// DefaultListLimit bounds List when callers pass a non-positive limit.
const DefaultListLimit = 20

// Begin inserts a running row for run. ID and Date are required.
func (s *Store) Begin(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" || strings.TrimSpace(run.Date) == "" {
		return errors.New("begin run: id and date are required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO runs (id, run_date, status, stage, started_at, output_dir) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Date,
		StatusRunning,
		nullableString(run.Stage),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableString(run.OutputDir),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish records the final state of run. A running status is replaced with completed.
func (s *Store) Finish(ctx context.Context, run Run) error {
	status := run.Status
	if !status.Terminal() {
		status = StatusCompleted
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	warnings, err := encodeWarnings(run.Warnings)
	if err != nil {
		return err
	}
	res, err := s.exec(ctx,
		`UPDATE runs SET status = ?, stage = ?, finished_at = ?, item_count = ?, segment_count = ?,
            timeline_seconds = ?, video_path = ?, shorts_path = ?, video_id = ?, shorts_id = ?,
            warnings_json = ?, error_message = ?
        WHERE id = ?`,
		status,
		nullableString(run.Stage),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.ItemCount,
		run.SegmentCount,
		run.TimelineSeconds,
		nullableString(run.VideoPath),
		nullableString(run.ShortsPath),
		nullableString(run.VideoID),
		nullableString(run.ShortsID),
		warnings,
		nullableString(run.ErrorMessage),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %s: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

// Get returns the run with id, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// MarkAbandoned fails runs left in the running state, typically after a crash.
// It returns how many rows were updated.
func (s *Store) MarkAbandoned(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE status = ?`,
		StatusFailed,
		time.Now().UTC().Format(time.RFC3339Nano),
		"run did not finish",
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		statusRaw    string
		stage        sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
		outputDir    sql.NullString
		videoPath    sql.NullString
		shortsPath   sql.NullString
		videoID      sql.NullString
		shortsID     sql.NullString
		warningsJSON sql.NullString
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Date,
		&statusRaw,
		&stage,
		&startedRaw,
		&finishedRaw,
		&run.ItemCount,
		&run.SegmentCount,
		&run.TimelineSeconds,
		&outputDir,
		&videoPath,
		&shortsPath,
		&videoID,
		&shortsID,
		&warningsJSON,
		&errorMessage,
	); err != nil {
		return nil, err
	}
	status, ok := ParseStatus(statusRaw)
	if !ok {
		return nil, fmt.Errorf("unknown status %q for run %s", statusRaw, run.ID)
	}
	run.Status = status
	run.Stage = stage.String
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw.String)
	run.OutputDir = outputDir.String
	run.VideoPath = videoPath.String
	run.ShortsPath = shortsPath.String
	run.VideoID = videoID.String
	run.ShortsID = shortsID.String
	run.ErrorMessage = errorMessage.String
	if warningsJSON.Valid && warningsJSON.String != "" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &run.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings for run %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

func encodeWarnings(warnings []string) (any, error) {
	if len(warnings) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("encode warnings: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
