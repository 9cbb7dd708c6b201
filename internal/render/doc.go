// Package render turns a narration timeline into video artifacts.
//
// Map is the pure layout step: given a canvas resolution, an output mode and
// one timeline entry it returns font sizes, margins, anchors and a clamped
// on-screen display duration. Presets are enumerated per mode and scaled to
// the target canvas.
//
// Compositor drives ffmpeg to build the captioned briefing video from the
// narration track, the caption file and the per-entry layouts. Thumbnail
// draws the upload thumbnail with golang.org/x/image.
package render
