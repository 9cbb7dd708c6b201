package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"newscast/internal/config"
	"newscast/internal/services/llm"
)

// CheckLLM verifies that the chat completion API is reachable and the key is
// valid. One attempt, thirty second ceiling.
func CheckLLM(ctx context.Context, name string, cfg config.LLM) Result {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace reports whether the filesystem holding path has at least
// minGiB available. A non-positive minimum disables the check.
func CheckFreeSpace(name, path string, minGiB int) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := float64(st.Bavail) * float64(st.Bsize) / (1 << 30)
	if minGiB > 0 && free < float64(minGiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%.1f GiB free, need %d GiB", free, minGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free", free)}
}

// CheckOptionalFile passes when path is unset or names a readable file.
func CheckOptionalFile(name, path, fallback string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Passed: true, Optional: true, Detail: "not configured (" + fallback + ")"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (missing; %s)", path, fallback)}
	}
	if info.IsDir() {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (is a directory; %s)", path, fallback)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: path}
}

// CheckYouTube verifies that upload credentials are present. It does not
// contact the API.
func CheckYouTube(cfg *config.Config) Result {
	const name = "YouTube credentials"
	yt := cfg.YouTube
	if strings.TrimSpace(yt.RefreshToken) != "" && strings.TrimSpace(yt.ClientID) != "" {
		return Result{Name: name, Passed: true, Detail: "refresh token configured"}
	}
	if strings.TrimSpace(yt.ClientSecretsFile) == "" {
		return Result{Name: name, Detail: "no client secrets file or refresh token configured"}
	}
	if _, err := os.Stat(yt.ClientSecretsFile); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: client secrets unreadable)", yt.ClientSecretsFile)}
	}
	if _, err := os.Stat(yt.TokenFile); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: token file missing; authorize once and store the token)", yt.TokenFile)}
	}
	return Result{Name: name, Passed: true, Detail: "client secrets and token present"}
}

func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
