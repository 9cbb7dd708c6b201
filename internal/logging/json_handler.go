package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// redactedValue replaces secrets in every handler's output.
const redactedValue = "[redacted]"

var secretKeySuffixes = []string{"api_key", "token", "secret", "authorization", "password"}

// isSecretKey reports whether an attribute key names a credential.
func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, suffix := range secretKeySuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// newJSONHandler writes one object per line for the log file. Times are UTC,
// sources are file:line, and secret-looking keys are redacted.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return attr
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
				return attr
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
				return attr
			}
			if isSecretKey(attr.Key) && attr.Value.Kind() != slog.KindGroup {
				attr.Value = slog.StringValue(redactedValue)
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
