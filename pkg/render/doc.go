// Package render turns a generated month mosaic into output artifacts.
//
// # Overview
//
// A [Mosaic] bundles the cells produced by [voronoi.Generate] with the day
// list they were generated from, the canvas size and a [Theme]. Three sinks
// consume it:
//
//   - [RenderSVG] writes one path per cell, the month label and optional
//     day numbers using github.com/ajstarks/svgo.
//   - [RenderPNG] rasterises the same quadratic outlines with
//     golang.org/x/image/vector.
//   - [RenderJSON] emits the cells and days for API clients that draw the
//     mosaic themselves.
//
// Sinks never change geometry. Completion state only selects fills, so a
// month renders with identical paths whether or not any day is done.
//
// # Themes
//
// [ThemeFor] derives a palette from a chain colour: completed cells use the
// colour itself, pending cells a pale tint and the label cell a darker
// shade. [DefaultTheme] is used when no colour is known.
//
//	m := render.Mosaic{Year: 2024, Month: time.February, Width: 300, Height: 300,
//		Days: days, Cells: cells, Theme: render.ThemeFor("#4CAF50")}
//	svg := render.RenderSVG(m, render.WithDayNumbers())
//
// [voronoi.Generate]: github.com/matzehuels/habitmosaic/pkg/voronoi.Generate
package render
