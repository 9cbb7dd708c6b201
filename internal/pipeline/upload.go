package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services"
	"newscast/internal/services/youtube"
)

const descriptionHeader = "오늘의 주요 뉴스 출처:"

// Description lists each item's title and link under the source header.
func Description(items []news.Item) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, descriptionHeader)
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s - %s", strings.TrimSpace(it.Title), strings.TrimSpace(it.Link)))
	}
	return strings.Join(lines, "\n")
}

// upload publishes the rendered videos. Every failure is a warning; the run
// itself still completes.
func (r *Runner) upload(ctx context.Context, logger *slog.Logger, s *Summary) {
	skip := func(reason string, err error) {
		if err != nil {
			s.warn(services.NewWarning(StageUpload, 0, reason, err))
			logging.WarnWithContext(logger, "upload skipped", "upload_skipped",
				logging.String("reason", reason),
				logging.Error(err),
				logging.String(logging.FieldImpact, "videos stay on disk only"),
			)
		} else {
			logger.Info("upload skipped", logging.String("reason", reason))
		}
		if nerr := r.deps.Notifier.NotifyUploadSkipped(context.WithoutCancel(ctx), s.Date, reason); nerr != nil {
			logger.Debug("upload skipped notification failed", logging.Error(nerr))
		}
	}

	switch {
	case r.skipUpload:
		skip("disabled for this run", nil)
		return
	case !r.cfg.YouTube.Enabled:
		skip("youtube uploads disabled in config", nil)
		return
	case r.deps.Publisher == nil:
		skip("no publisher configured", nil)
		return
	}

	pub, err := r.deps.Publisher(ctx)
	if err != nil {
		skip("youtube client unavailable", err)
		return
	}

	yt := r.cfg.YouTube
	title := r.videoTitle(s.Date)
	description := Description(s.Items)

	videoID, err := pub.Upload(ctx, youtube.Video{
		Path:        s.VideoPath,
		Title:       title,
		Description: description,
		Tags:        yt.Tags,
		Privacy:     yt.Privacy,
	})
	if err != nil {
		skip("landscape upload failed", err)
		return
	}
	s.VideoID = videoID
	r.attachThumbnail(ctx, logger, s, pub, videoID)

	s.Playlists = make(map[string]string)
	for _, topic := range news.Topics(s.Items) {
		playlistTitle := yt.PlaylistPrefix + topic
		playlistID, err := pub.EnsurePlaylist(ctx, playlistTitle, yt.PlaylistDescription)
		if err == nil {
			err = pub.AddToPlaylist(ctx, playlistID, videoID)
		}
		if err != nil {
			s.warn(services.NewWarning(StageUpload, 0, fmt.Sprintf("playlist %q not updated", playlistTitle), err))
			logging.WarnWithContext(logger, "playlist update failed", "playlist_failed",
				logging.String("playlist", playlistTitle),
				logging.Error(err),
			)
			continue
		}
		s.Playlists[playlistTitle] = playlistID
	}

	if s.ShortsPath != "" {
		shortsID, err := pub.Upload(ctx, youtube.Video{
			Path:        s.ShortsPath,
			Title:       title + " #shorts",
			Description: description,
			Tags:        yt.ShortsTags,
			Privacy:     yt.ShortsPrivacy,
		})
		if err != nil {
			s.warn(services.NewWarning(StageUpload, 0, "shorts upload failed", err))
			logging.WarnWithContext(logger, "shorts upload failed", "shorts_upload_failed", logging.Error(err))
		} else {
			s.ShortsID = shortsID
			r.attachThumbnail(ctx, logger, s, pub, shortsID)
		}
	}

	if err := writeVideoIDs(s.OutputDir, s.VideoID, s.ShortsID); err != nil {
		s.warn(services.NewWarning(StageUpload, 0, "video_ids.txt not written", err))
	}
	logger.Info("videos published",
		logging.String(logging.FieldEventType, "upload_complete"),
		logging.String("video_id", s.VideoID),
		logging.String("shorts_id", s.ShortsID),
		logging.Int("playlist_count", len(s.Playlists)),
	)
}

func (r *Runner) attachThumbnail(ctx context.Context, logger *slog.Logger, s *Summary, pub Publisher, videoID string) {
	if s.ThumbnailPath == "" {
		return
	}
	if err := pub.SetThumbnail(ctx, videoID, s.ThumbnailPath); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.warn(services.NewWarning(StageUpload, 0, "thumbnail not set on "+videoID, err))
		logging.WarnWithContext(logger, "thumbnail upload failed", "thumbnail_upload_failed",
			logging.String("video_id", videoID),
			logging.Error(err),
		)
	}
}
