package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a canvas size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// ParseResolution parses "<width>x<height>".
func ParseResolution(value string) (Resolution, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	w, h, ok := strings.Cut(trimmed, "x")
	if !ok {
		return Resolution{}, fmt.Errorf("resolution %q: expected <width>x<height>", value)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil {
		return Resolution{}, fmt.Errorf("resolution %q: dimensions must be integers", value)
	}
	res := Resolution{Width: width, Height: height}
	if err := res.Validate(); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

// Validate reports non-positive or odd dimensions; libx264 with yuv420p
// requires even sizes.
func (r Resolution) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("resolution %s: dimensions must be positive", r)
	}
	if r.Width%2 != 0 || r.Height%2 != 0 {
		return fmt.Errorf("resolution %s: dimensions must be even", r)
	}
	return nil
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Portrait reports whether the canvas is taller than it is wide.
func (r Resolution) Portrait() bool {
	return r.Height > r.Width
}

// Mode selects the layout preset.
type Mode string

const (
	ModeLandscape Mode = "landscape"
	ModeShorts    Mode = "shorts"
)

// ParseMode validates a mode flag. Empty means landscape.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeLandscape:
		return ModeLandscape, nil
	case ModeShorts:
		return ModeShorts, nil
	default:
		return "", fmt.Errorf("render mode: unsupported value %q", value)
	}
}
