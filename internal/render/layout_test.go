package render

import (
	"math"
	"testing"

	"newscast/internal/timeline"
)

func TestMapClampsDisplayDuration(t *testing.T) {
	res := Resolution{Width: 1920, Height: 1080}
	cases := []struct {
		duration float64
		want     float64
	}{
		{0.1, 2.0},
		{5.0, 5.0},
		{120, 8.0},
	}
	for _, mode := range []Mode{ModeLandscape, ModeShorts} {
		for _, tc := range cases {
			entry := timeline.Entry{Start: 10, End: 10 + tc.duration, Headline: "h"}
			layout, err := Map(res, mode, entry, 0)
			if err != nil {
				t.Fatalf("Map: %v", err)
			}
			if math.Abs(layout.DisplayDuration-tc.want) > 1e-9 {
				t.Fatalf("%s %.1fs: display %v, want %v", mode, tc.duration, layout.DisplayDuration, tc.want)
			}
			if layout.DisplayDuration < 2.0 || layout.DisplayDuration > 8.0 {
				t.Fatalf("display duration out of bounds: %v", layout.DisplayDuration)
			}
			if layout.Start != 10 {
				t.Fatalf("expected start 10, got %v", layout.Start)
			}
		}
	}
}

func TestMapLandscapePreset(t *testing.T) {
	layout, err := Map(Resolution{Width: 1920, Height: 1080}, ModeLandscape, timeline.Entry{Start: 0, End: 3}, 2)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if layout.TitleFontSize != 72 || layout.HeadlineSize != 48 || layout.SummarySize != 32 {
		t.Fatalf("unexpected font sizes: %+v", layout)
	}
	if layout.Margin != 100 || layout.TopBarHeight != 108 || layout.BottomBarHeight != 216 {
		t.Fatalf("unexpected geometry: %+v", layout)
	}
	if layout.Index != 2 || layout.HeadlineY >= layout.SummaryY {
		t.Fatalf("unexpected anchors: %+v", layout)
	}
}

func TestMapShortsUsesLargerFontsAndDifferentAnchor(t *testing.T) {
	entry := timeline.Entry{Start: 0, End: 3}
	wide, err := Map(Resolution{Width: 1920, Height: 1080}, ModeLandscape, entry, 0)
	if err != nil {
		t.Fatalf("Map landscape: %v", err)
	}
	tall, err := Map(Resolution{Width: 1080, Height: 1920}, ModeShorts, entry, 0)
	if err != nil {
		t.Fatalf("Map shorts: %v", err)
	}
	if tall.HeadlineSize <= wide.HeadlineSize || tall.SummarySize <= wide.SummarySize {
		t.Fatalf("shorts fonts should be larger: wide=%+v tall=%+v", wide, tall)
	}
	if tall.HeadlineAnchor == wide.HeadlineAnchor {
		t.Fatal("shorts should anchor headlines differently")
	}
}

func TestMapScalesToCanvas(t *testing.T) {
	layout, err := Map(Resolution{Width: 1280, Height: 720}, ModeLandscape, timeline.Entry{Start: 0, End: 3}, 0)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if layout.TitleFontSize != 48 || layout.HeadlineSize != 32 {
		t.Fatalf("unexpected scaled fonts: %+v", layout)
	}
}

func TestMapRejectsBadInput(t *testing.T) {
	entry := timeline.Entry{Start: 0, End: 1}
	if _, err := Map(Resolution{}, ModeLandscape, entry, 0); err == nil {
		t.Fatal("expected error for zero resolution")
	}
	if _, err := Map(Resolution{Width: 1920, Height: 1080}, Mode("square"), entry, 0); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewMapperBounds(t *testing.T) {
	m, err := NewMapper(1, 4)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	layout, err := m.Map(Resolution{Width: 1920, Height: 1080}, ModeLandscape, timeline.Entry{Start: 0, End: 6}, 0)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if layout.DisplayDuration != 4 || layout.End() != 4 {
		t.Fatalf("expected custom clamp, got %+v", layout)
	}
	if _, err := NewMapper(5, 2); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	if _, err := NewMapper(0, 2); err == nil {
		t.Fatal("expected error for zero minimum")
	}
}

func TestParseResolutionAndMode(t *testing.T) {
	res, err := ParseResolution(" 1080X1920 ")
	if err != nil || res.Width != 1080 || res.Height != 1920 || !res.Portrait() {
		t.Fatalf("unexpected %+v (%v)", res, err)
	}
	if res.String() != "1080x1920" {
		t.Fatalf("unexpected String: %s", res)
	}
	for _, bad := range []string{"", "1920", "axb", "0x1080", "1919x1080"} {
		if _, err := ParseResolution(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if mode, err := ParseMode(""); err != nil || mode != ModeLandscape {
		t.Fatalf("default mode: %v %v", mode, err)
	}
	if mode, err := ParseMode("Shorts"); err != nil || mode != ModeShorts {
		t.Fatalf("shorts mode: %v %v", mode, err)
	}
	if _, err := ParseMode("vertical"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
