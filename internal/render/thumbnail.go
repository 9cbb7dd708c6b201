package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"newscast/internal/fileutil"
)

// Thumbnail defaults.
const (
	DefaultThumbnailWidth  = 1280
	DefaultThumbnailHeight = 720
	FallbackKeyword        = "핵심 이슈"
	keywordSeparator       = " · "
	maxThumbnailKeywords   = 3
)

var (
	thumbnailBackground = color.RGBA{15, 18, 45, 255}
	thumbnailAccent     = color.RGBA{80, 160, 255, 255}
	thumbnailKeywords   = color.RGBA{230, 230, 230, 255}
	thumbnailDate       = color.RGBA{200, 200, 200, 255}
)

// ThumbnailOptions controls the thumbnail canvas.
type ThumbnailOptions struct {
	Width    int
	Height   int
	Title    string
	FontFile string
	Quality  int
}

// ThumbnailKeywords returns up to three distinct, non-empty keywords joined
// for display, or the fallback when none remain.
func ThumbnailKeywords(keywords []string) string {
	seen := make(map[string]struct{}, len(keywords))
	picked := make([]string, 0, maxThumbnailKeywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		picked = append(picked, kw)
		if len(picked) == maxThumbnailKeywords {
			break
		}
	}
	if len(picked) == 0 {
		return FallbackKeyword
	}
	return strings.Join(picked, keywordSeparator)
}

// Thumbnail draws the upload thumbnail and writes it to path as JPEG.
// When the font file is missing or unreadable the built-in bitmap face is
// scaled up instead; glyphs it lacks render as boxes.
func Thumbnail(path, date string, keywords []string, opts ThumbnailOptions) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("thumbnail path is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultThumbnailWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultThumbnailHeight
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 90
	}
	w, h := opts.Width, opts.Height

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(thumbnailBackground), image.Point{}, draw.Src)

	faces := loadFaces(opts.FontFile)
	faces.draw(canvas, strings.TrimSpace(opts.Title), 60, 80, 64, color.White)
	accent := image.Rect(60, 220, w-60, 230).Intersect(canvas.Bounds())
	draw.Draw(canvas, accent, image.NewUniform(thumbnailAccent), image.Point{}, draw.Src)
	faces.draw(canvas, ThumbnailKeywords(keywords), 60, 280, 44, thumbnailKeywords)
	faces.draw(canvas, strings.TrimSpace(date), 60, h-120, 36, thumbnailDate)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// faceSet draws text with an outline font when one was loaded, otherwise
// with the scaled bitmap face.
type faceSet struct {
	font *opentype.Font
}

func loadFaces(fontFile string) faceSet {
	if strings.TrimSpace(fontFile) == "" {
		return faceSet{}
	}
	data, err := os.ReadFile(fontFile)
	if err != nil {
		return faceSet{}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return faceSet{}
	}
	return faceSet{font: parsed}
}

// draw renders text with its top-left corner at (x, y).
func (f faceSet) draw(dst draw.Image, text string, x, y int, size float64, c color.Color) {
	if text == "" {
		return
	}
	if f.font != nil {
		face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			defer face.Close()
			drawer := font.Drawer{
				Dst:  dst,
				Src:  image.NewUniform(c),
				Face: face,
				Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
			}
			drawer.DrawString(text)
			return
		}
	}
	drawBitmapText(dst, text, x, y, size, c)
}

func drawBitmapText(dst draw.Image, text string, x, y int, size float64, c color.Color) {
	face := basicfont.Face7x13
	drawer := font.Drawer{Face: face}
	width := drawer.MeasureString(text).Ceil()
	height := face.Height
	if width <= 0 {
		return
	}
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer.Dst = src
	drawer.Src = image.NewUniform(c)
	drawer.Dot = fixed.P(0, face.Ascent)
	drawer.DrawString(text)

	scale := size / float64(height)
	if scale < 1 {
		scale = 1
	}
	target := image.Rect(x, y, x+int(float64(width)*scale), y+int(float64(height)*scale))
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), xdraw.Over, nil)
}
