// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns the parsed Result; Duration is the
// shortcut the narration stage uses to measure synthesized clips. Helpers on
// Result resolve the duration from the container or, failing that, from the
// longest audio stream.
package ffprobe
