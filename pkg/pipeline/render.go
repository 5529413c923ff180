package pipeline

import (
	"fmt"

	"github.com/matzehuels/habitmosaic/pkg/render"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// =============================================================================
// Rendering
// =============================================================================

// Mosaic assembles the render input for cells generated from days.
func Mosaic(days []voronoi.Day, cells []voronoi.Cell, opts Options) render.Mosaic {
	return render.Mosaic{
		Year:   opts.Year,
		Month:  opts.Month,
		Width:  opts.Width,
		Height: opts.Height,
		Days:   days,
		Cells:  cells,
		Theme:  render.ThemeFor(opts.Color),
		Title:  opts.Title,
	}
}

// RenderFormat renders a single format. It is the uncached render stage.
func RenderFormat(m render.Mosaic, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.DayNumbers {
			svgOpts = append(svgOpts, render.WithDayNumbers())
		}
		return render.RenderSVG(m, svgOpts...), nil
	case FormatPNG:
		var pngOpts []render.PNGOption
		if opts.DayNumbers {
			pngOpts = append(pngOpts, render.WithPNGDayNumbers())
		}
		return render.RenderPNG(m, pngOpts...)
	case FormatJSON:
		return render.RenderJSON(m)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderAll renders every requested format.
func RenderAll(m render.Mosaic, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(m, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
