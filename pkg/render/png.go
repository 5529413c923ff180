package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	theme      *Theme
	scale      float64
	dayNumbers bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGTheme overrides the mosaic's theme.
func WithPNGTheme(t Theme) PNGOption {
	return func(r *pngRenderer) { r.theme = &t }
}

// WithPNGDayNumbers draws the day of month inside each day cell.
func WithPNGDayNumbers() PNGOption {
	return func(r *pngRenderer) { r.dayNumbers = true }
}

// RenderPNG rasterises the mosaic. Cell outlines are filled from the same
// quadratic segments the SVG path describes, so both sinks agree.
func RenderPNG(m Mosaic, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}
	theme := m.Theme
	if r.theme != nil {
		theme = *r.theme
	}
	theme = theme.withDefaults()

	w := int(math.Ceil(m.Width * r.scale))
	h := int(math.Ceil(m.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png canvas must be non-empty, got %dx%d", w, h)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(theme.Background)), image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	for _, c := range m.Cells {
		if len(c.Points) < 3 {
			continue
		}
		z.Reset(w, h)
		tracePath(z, c.Points, r.scale)
		z.Draw(img, img.Bounds(), image.NewUniform(rgba(m.fill(c, theme))), image.Point{})
	}

	for _, c := range m.Cells {
		switch {
		case c.IsMonthLabel:
			drawCentered(img, m.Label(), c.Centroid, r.scale, image.NewUniform(rgba(theme.LabelText)))
		case r.dayNumbers:
			col := theme.Text
			if m.completed(c) {
				col = theme.LabelText
			}
			drawCentered(img, dayNumber(c), c.Centroid, r.scale, image.NewUniform(rgba(col)))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func tracePath(z *vector.Rasterizer, points []voronoi.Point, scale float64) {
	pt := func(p voronoi.Point) (float32, float32) {
		return float32(p.X * scale), float32(p.Y * scale)
	}
	z.MoveTo(pt(points[0]))
	for _, s := range voronoi.QuadSegments(points) {
		cx, cy := pt(s.Control)
		x, y := pt(s.To)
		z.QuadTo(cx, cy, x, y)
	}
	z.ClosePath()
}

func drawCentered(img draw.Image, text string, at voronoi.Point, scale float64, col image.Image) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	width := font.MeasureString(face, text)
	x := fixed.Int26_6(at.X*scale*64) - width/2
	y := fixed.Int26_6(at.Y*scale*64) + (metrics.Ascent-metrics.Descent)/2
	d := &font.Drawer{
		Dst:  img,
		Src:  col,
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}
