package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme       *Theme
	dayNumbers  bool
	transparent bool
}

func WithDayNumbers() SVGOption   { return func(r *svgRenderer) { r.dayNumbers = true } }
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = &t } }
func WithTransparent() SVGOption  { return func(r *svgRenderer) { r.transparent = true } }

// RenderSVG draws the mosaic as a standalone SVG document. Toggleable cells
// carry a data-day attribute with their day index; the label cell does not.
func RenderSVG(m Mosaic, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	theme := m.Theme
	if r.theme != nil {
		theme = *r.theme
	}
	theme = theme.withDefaults()

	w, h := int(math.Ceil(m.Width)), int(math.Ceil(m.Height))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	canvas.Title(m.title())
	if !r.transparent {
		canvas.Rect(0, 0, w, h, attr("fill", theme.Background))
	}

	canvas.Gid("cells")
	for _, c := range m.Cells {
		renderCell(canvas, m, c, theme)
	}
	canvas.Gend()

	canvas.Gstyle("font-family:sans-serif;text-anchor:middle;dominant-baseline:central")
	for _, c := range m.Cells {
		if c.IsMonthLabel {
			renderLabel(canvas, m, c, theme)
			continue
		}
		if r.dayNumbers {
			renderDayNumber(canvas, m, c, theme)
		}
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderCell(canvas *svg.SVG, m Mosaic, c voronoi.Cell, t Theme) {
	if c.Path == "" {
		return
	}
	attrs := []string{
		attr("id", fmt.Sprintf("cell-%d", c.ID)),
		attr("class", m.CellClass(c)),
		attr("fill", m.fill(c, t)),
		attr("stroke", t.Stroke),
		attr("stroke-width", "1"),
	}
	if !c.IsMonthLabel {
		attrs = append(attrs, attr("data-day", fmt.Sprint(c.DayIndex)))
	}
	canvas.Path(c.Path, attrs...)
}

func renderLabel(canvas *svg.SVG, m Mosaic, c voronoi.Cell, t Theme) {
	x, y := round(c.Centroid)
	canvas.Text(x, y, m.Label(),
		attr("class", "month-label-text"),
		attr("fill", t.LabelText),
		attr("font-size", "14"),
		attr("font-weight", "bold"))
}

func renderDayNumber(canvas *svg.SVG, m Mosaic, c voronoi.Cell, t Theme) {
	fill := t.Text
	if m.completed(c) {
		fill = t.LabelText
	}
	x, y := round(c.Centroid)
	canvas.Text(x, y, dayNumber(c),
		attr("class", "day-number"),
		attr("fill", fill),
		attr("font-size", "9"))
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s=%q`, name, value)
}

func round(p voronoi.Point) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
