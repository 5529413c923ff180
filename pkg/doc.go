// Package pkg provides the core libraries for Habitmosaic habit tracking.
//
// # Overview
//
// Habitmosaic records habit chains (one completion flag per calendar day)
// and draws each month as a mosaic: a bounded Voronoi diagram with one
// organic cell per day, the cell nearest the centre carrying the month name.
// The pkg directory is organized into three main areas:
//
//  1. [voronoi] and [render] - Geometry and drawing
//  2. [chain] and [storage] - The habit domain and its persistence
//  3. [pipeline] and [cache] - Orchestration (generate → render) with caching
//
// # Architecture
//
// The typical data flow through Habitmosaic:
//
//	chain.Chain (completed days)
//	         ↓
//	    [chain] MonthDays (one voronoi.Day per day of the month)
//	         ↓
//	    [voronoi] package (seeds → relaxation → clipped, smoothed cells)
//	         ↓
//	    [render] package (SVG, PNG, JSON)
//
// Geometry depends only on the day count and canvas, never on completion
// state, so toggling a day recolours a cell without moving it.
//
// # Quick Start
//
// Render a month directly:
//
//	import (
//	    "github.com/matzehuels/habitmosaic/pkg/pipeline"
//	    "github.com/matzehuels/habitmosaic/pkg/render"
//	    "github.com/matzehuels/habitmosaic/pkg/voronoi"
//	)
//
//	days := pipeline.BlankDays(2024, time.February, 0)
//	days[4].Completed = true
//
//	cells := voronoi.Generate(days, 300, 300, nil)
//	svg := render.RenderSVG(render.Mosaic{
//	    Year: 2024, Month: time.February,
//	    Width: 300, Height: 300,
//	    Days: days, Cells: cells,
//	    Theme: render.ThemeFor("#4CAF50"),
//	})
//
// Or through the cached pipeline used by the CLI and API:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, days, pipeline.Options{Formats: []string{"svg", "png"}})
//
// # Main Packages
//
// [voronoi] - Seed placement along a chain walk, Lloyd-style relaxation,
// convex cell clipping, label selection and Chaikin smoothing.
//
// [render] - Sinks for SVG (svgo), PNG (x/image/vector) and JSON, and
// colour themes derived from a chain colour.
//
// [chain] - Chains, completion toggling, streak statistics, month views and
// JSON/YAML export. [chain.Service] guards read-modify-write on a [chain.Store].
//
// [storage] - Store backends: memory, file, SQLite, PostgreSQL, Redis and
// MongoDB.
//
// [pipeline] - Generate → render with layout and artifact caching, shared
// by the CLI and the HTTP API.
//
// [cache] - Cache backends (file, Redis, null) and cache key construction.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Error codes and input validation shared by all entry points.
//
// [observability] - Hooks for pipeline, cache, store and HTTP events.
//
// [buildinfo] - Version information stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/voronoi/...            # Specific package
//
// [voronoi]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/voronoi
// [render]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/render
// [chain]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/chain
// [storage]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/storage
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/habitmosaic/pkg/buildinfo
package pkg
