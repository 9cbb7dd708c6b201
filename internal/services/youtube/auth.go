package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"newscast/internal/fileutil"
	"newscast/internal/services"
)

var scopes = []string{youtube.YoutubeUploadScope, youtube.YoutubeScope}

// TokenSource builds a refreshing token source from cfg.
func TokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	if strings.TrimSpace(cfg.RefreshToken) != "" && strings.TrimSpace(cfg.ClientID) != "" {
		conf := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
		// An expired token forces a refresh on first use.
		token := &oauth2.Token{RefreshToken: cfg.RefreshToken, Expiry: time.Now().Add(-time.Hour)}
		return conf.TokenSource(ctx, token), nil
	}
	if strings.TrimSpace(cfg.ClientSecretsFile) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "no youtube credentials configured", nil)
	}

	secrets, err := os.ReadFile(cfg.ClientSecretsFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "read client secrets", err)
	}
	conf, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "parse client secrets", err)
	}
	token, err := readToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		base: conf.TokenSource(ctx, token),
		path: cfg.TokenFile,
		last: token.AccessToken,
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth",
			fmt.Sprintf("token file %s not found; authorize the channel once and store the token there", path), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "read token file", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "parse token file", err)
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "auth", "token file has no tokens", nil)
	}
	return &token, nil
}

// persistingSource saves refreshed tokens so the next run starts with them.
type persistingSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last && s.path != "" {
		s.last = token.AccessToken
		_ = fileutil.WriteJSON(s.path, token)
	}
	return token, nil
}
