package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"newscast/internal/logging"
	"newscast/internal/services"
)

// Config holds credentials and upload defaults.
type Config struct {
	ClientSecretsFile string
	TokenFile         string
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	CategoryID        string
	Language          string
	Timeout           time.Duration
}

// Video describes one upload.
type Video struct {
	Path        string
	Title       string
	Description string
	Tags        []string
	Privacy     string
}

// Uploader wraps the YouTube service.
type Uploader struct {
	svc    *youtube.Service
	cfg    Config
	logger *slog.Logger
}

// New authenticates and constructs an uploader. Extra client options replace
// the OAuth client entirely, which tests use to point at a fake endpoint.
func New(ctx context.Context, cfg Config, logger *slog.Logger, opts ...option.ClientOption) (*Uploader, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	if len(opts) == 0 {
		source, err := TokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		httpClient := &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: source},
		}
		opts = []option.ClientOption{option.WithHTTPClient(httpClient)}
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "service", "create youtube service", err)
	}
	return &Uploader{svc: svc, cfg: cfg, logger: logging.NewComponentLogger(logger, "youtube")}, nil
}

// Upload sends the video file and returns its id.
func (u *Uploader) Upload(ctx context.Context, v Video) (string, error) {
	if strings.TrimSpace(v.Title) == "" {
		return "", errors.New("youtube upload: title is required")
	}
	f, err := os.Open(v.Path)
	if err != nil {
		return "", fmt.Errorf("youtube upload: open video: %w", err)
	}
	defer f.Close()
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	privacy := strings.TrimSpace(v.Privacy)
	if privacy == "" {
		privacy = "private"
	}
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                truncateRunes(v.Title, 100),
			Description:          truncateRunes(v.Description, 5000),
			Tags:                 v.Tags,
			CategoryId:           u.cfg.CategoryID,
			DefaultLanguage:      u.cfg.Language,
			DefaultAudioLanguage: u.cfg.Language,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	u.logger.Info("uploading video",
		logging.String(logging.FieldEventType, "upload_started"),
		logging.String("video_path", v.Path),
		logging.String("title", v.Title),
		logging.String("privacy", privacy),
		logging.Int64("size_bytes", size),
	)
	uploaded, err := u.svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Context(ctx).Do()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "upload", "videos.insert", v.Title, err)
	}
	u.logger.Info("video uploaded",
		logging.String(logging.FieldEventType, "upload_completed"),
		logging.String("video_id", uploaded.Id),
		logging.String("url", WatchURL(uploaded.Id)),
	)
	return uploaded.Id, nil
}

// SetThumbnail attaches a custom thumbnail to videoID.
func (u *Uploader) SetThumbnail(ctx context.Context, videoID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("youtube thumbnail: open: %w", err)
	}
	defer f.Close()
	if _, err := u.svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do(); err != nil {
		return services.Wrap(services.ErrExternalTool, "upload", "thumbnails.set", videoID, err)
	}
	return nil
}

// EnsurePlaylist returns the id of the channel playlist titled title,
// creating a public one when none exists.
func (u *Uploader) EnsurePlaylist(ctx context.Context, title, description string) (string, error) {
	var found string
	errFound := errors.New("found")
	err := u.svc.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(50).Pages(ctx, func(resp *youtube.PlaylistListResponse) error {
		for _, p := range resp.Items {
			if p.Snippet != nil && p.Snippet.Title == title {
				found = p.Id
				return errFound
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", services.Wrap(services.ErrExternalTool, "upload", "playlists.list", title, err)
	}
	if found != "" {
		return found, nil
	}

	created, err := u.svc.Playlists.Insert([]string{"snippet", "status"}, &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: title, Description: description, DefaultLanguage: u.cfg.Language},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: "public"},
	}).Context(ctx).Do()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "upload", "playlists.insert", title, err)
	}
	u.logger.Info("playlist created",
		logging.String(logging.FieldEventType, "playlist_created"),
		logging.String("playlist_id", created.Id),
		logging.String("title", title),
	)
	return created.Id, nil
}

// AddToPlaylist appends videoID to playlistID.
func (u *Uploader) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}
	if _, err := u.svc.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return services.Wrap(services.ErrExternalTool, "upload", "playlistItems.insert", playlistID, err)
	}
	return nil
}

// WatchURL returns the public URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
