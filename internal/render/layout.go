package render

import (
	"fmt"
	"math"

	"newscast/internal/timeline"
)

// Display clamp defaults in seconds.
const (
	DefaultMinDisplaySeconds = 2.0
	DefaultMaxDisplaySeconds = 8.0
)

// Preset holds the layout constants for one mode, expressed against
// ReferenceHeight. Anchors and bar heights are fractions of canvas height.
type Preset struct {
	ReferenceHeight  int
	TitleFontSize    int
	HeadlineFontSize int
	SummaryFontSize  int
	Margin           int
	TopBar           float64
	BottomBar        float64
	TitleAnchor      float64
	HeadlineAnchor   float64
	SummaryAnchor    float64
	// SummaryWrap is the maximum runes per summary line.
	SummaryWrap int
}

var presets = map[Mode]Preset{
	ModeLandscape: {
		ReferenceHeight:  1080,
		TitleFontSize:    72,
		HeadlineFontSize: 48,
		SummaryFontSize:  32,
		Margin:           100,
		TopBar:           0.10,
		BottomBar:        0.20,
		TitleAnchor:      0.05,
		HeadlineAnchor:   0.83,
		SummaryAnchor:    0.91,
		SummaryWrap:      48,
	},
	ModeShorts: {
		ReferenceHeight:  1920,
		TitleFontSize:    96,
		HeadlineFontSize: 72,
		SummaryFontSize:  52,
		Margin:           60,
		TopBar:           0.08,
		BottomBar:        0.30,
		TitleAnchor:      0.04,
		HeadlineAnchor:   0.60,
		SummaryAnchor:    0.70,
		SummaryWrap:      18,
	},
}

// PresetFor returns the preset for mode.
func PresetFor(mode Mode) (Preset, bool) {
	p, ok := presets[mode]
	return p, ok
}

// Layout is the concrete overlay geometry for one timeline entry.
type Layout struct {
	Index           int
	Mode            Mode
	Resolution      Resolution
	TitleFontSize   int
	HeadlineSize    int
	SummarySize     int
	Margin          int
	TopBarHeight    int
	BottomBarHeight int
	TitleAnchor     float64
	HeadlineAnchor  float64
	SummaryAnchor   float64
	TitleY          int
	HeadlineY       int
	SummaryY        int
	SummaryWrap     int
	Start           float64
	DisplayDuration float64
}

// End is when the overlay disappears.
func (l Layout) End() float64 {
	return l.Start + l.DisplayDuration
}

// Mapper maps timeline entries to layouts with configurable clamp bounds.
type Mapper struct {
	minDisplay float64
	maxDisplay float64
}

// NewMapper validates the clamp bounds.
func NewMapper(minDisplay, maxDisplay float64) (*Mapper, error) {
	if !(minDisplay > 0) || !(maxDisplay >= minDisplay) {
		return nil, fmt.Errorf("display bounds [%v, %v]: min must be positive and not exceed max", minDisplay, maxDisplay)
	}
	return &Mapper{minDisplay: minDisplay, maxDisplay: maxDisplay}, nil
}

var defaultMapper = &Mapper{minDisplay: DefaultMinDisplaySeconds, maxDisplay: DefaultMaxDisplaySeconds}

// Map uses the default clamp bounds.
func Map(res Resolution, mode Mode, entry timeline.Entry, index int) (Layout, error) {
	return defaultMapper.Map(res, mode, entry, index)
}

// Map returns the layout for entry. It has no side effects.
func (m *Mapper) Map(res Resolution, mode Mode, entry timeline.Entry, index int) (Layout, error) {
	if m == nil {
		m = defaultMapper
	}
	if err := res.Validate(); err != nil {
		return Layout{}, err
	}
	preset, ok := presets[mode]
	if !ok {
		return Layout{}, fmt.Errorf("render mode: unsupported value %q", mode)
	}
	scale := float64(res.Height) / float64(preset.ReferenceHeight)
	top := scaled(float64(res.Height)*preset.TopBar, 1)
	bottom := scaled(float64(res.Height)*preset.BottomBar, 1)
	return Layout{
		Index:           index,
		Mode:            mode,
		Resolution:      res,
		TitleFontSize:   scaled(float64(preset.TitleFontSize)*scale, 1),
		HeadlineSize:    scaled(float64(preset.HeadlineFontSize)*scale, 1),
		SummarySize:     scaled(float64(preset.SummaryFontSize)*scale, 1),
		Margin:          scaled(float64(preset.Margin)*scale, 0),
		TopBarHeight:    top,
		BottomBarHeight: bottom,
		TitleAnchor:     preset.TitleAnchor,
		HeadlineAnchor:  preset.HeadlineAnchor,
		SummaryAnchor:   preset.SummaryAnchor,
		TitleY:          scaled(float64(res.Height)*preset.TitleAnchor, 0),
		HeadlineY:       scaled(float64(res.Height)*preset.HeadlineAnchor, 0),
		SummaryY:        scaled(float64(res.Height)*preset.SummaryAnchor, 0),
		SummaryWrap:     preset.SummaryWrap,
		Start:           entry.Start,
		DisplayDuration: ClampDisplay(entry.End-entry.Start, m.minDisplay, m.maxDisplay),
	}, nil
}

// ClampDisplay bounds an on-screen duration to [lo, hi]. Non-finite or
// non-positive input yields lo.
func ClampDisplay(duration, lo, hi float64) float64 {
	if math.IsNaN(duration) || duration < lo {
		return lo
	}
	if duration > hi {
		return hi
	}
	return duration
}

func scaled(value float64, minimum int) int {
	v := int(math.Round(value))
	if v < minimum {
		return minimum
	}
	return v
}
