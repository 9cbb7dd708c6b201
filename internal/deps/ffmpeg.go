package deps

import (
	"strings"
)

const (
	defaultFFmpeg  = "ffmpeg"
	defaultFFprobe = "ffprobe"
)

// MediaRequirements lists the binaries the renderer shells out to. Empty
// arguments resolve to the names on PATH.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     orDefault(ffmpegBinary, defaultFFmpeg),
			Description: "Required for audio joins and video composition",
		},
		{
			Name:        "FFprobe",
			Command:     orDefault(ffprobeBinary, defaultFFprobe),
			Description: "Measures narration clip lengths; estimates are used without it",
			Optional:    true,
		},
	}
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
