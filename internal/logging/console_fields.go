package logging

import (
	"log/slog"
	"strings"
)

const maxInfoValueLen = 160

// highlightKeys are printed first, in this order.
var highlightKeys = []string{
	FieldAlert,
	FieldEventType,
	"error",
	FieldErrorHint,
	FieldImpact,
	"date",
	"topic",
	"items",
	"segments",
	"warnings",
	"duration_seconds",
	"stage_duration",
	"mode",
	"resolution",
	"output",
	"video_id",
	"playlist",
	"status",
}

func orderFields(fields []kv) []kv {
	if len(fields) < 2 {
		return fields
	}
	ordered := make([]kv, 0, len(fields))
	used := make([]bool, len(fields))
	for _, key := range highlightKeys {
		for i, field := range fields {
			if !used[i] && field.key == key {
				ordered = append(ordered, field)
				used[i] = true
			}
		}
	}
	for i, field := range fields {
		if !used[i] {
			ordered = append(ordered, field)
		}
	}
	return ordered
}

func formatFieldValue(key string, v slog.Value) string {
	if isSecretKey(key) {
		return redactedValue
	}
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case v.Kind() == slog.KindDuration:
		return formatDuration(v.Duration())
	case strings.HasSuffix(key, "_bytes") && v.Kind() == slog.KindInt64:
		return formatBytes(v.Int64())
	case strings.HasSuffix(key, "_seconds") && v.Kind() == slog.KindFloat64:
		return formatSeconds(v.Float64())
	}
	return formatValue(v)
}

func isErrorKey(key string) bool {
	return key == "error" || key == FieldErrorHint
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldCorrelationID:
		return "Request"
	case "video_id":
		return "Video"
	case "duration_seconds":
		return "Duration"
	case "stage_duration":
		return "Elapsed"
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}
