package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/habitmosaic/pkg/cache"
	"github.com/matzehuels/habitmosaic/pkg/observability"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// yearConcurrency bounds the months rendered in parallel by ExecuteYear.
const yearConcurrency = 4

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, days []voronoi.Day, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(days); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Year:  opts.Year,
		Month: opts.Month,
		Days:  days,
	}
	for _, d := range days {
		if d.Completed {
			result.Stats.Completed++
		}
	}

	// Stage 1: Generate
	genStart := time.Now()
	cells, key, layoutHit, err := r.GenerateWithCacheInfo(ctx, days, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Cells = cells
	result.LayoutKey = key
	result.Stats.DayCount = len(days)
	result.Stats.CellCount = len(cells)
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Debug("generated mosaic",
		"month", fmt.Sprintf("%d-%02d", opts.Year, opts.Month),
		"cells", len(cells),
		"cached", layoutHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, key, days, cells, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo returns the cells for days, their layout cache key
// and whether they came from the cache. opts must already carry defaults.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, days []voronoi.Day, opts Options) ([]voronoi.Cell, string, bool, error) {
	r.applyLogger(&opts)
	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts(len(days)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cells, err := UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cells, cacheKey, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, opts.Year, opts.Month, len(days))
	cells := GenerateCells(days, opts)
	observability.Pipeline().OnGenerateComplete(ctx, opts.Year, opts.Month, len(cells), time.Since(start))

	if data, err := MarshalLayout(cells); err == nil {
		r.store(ctx, "layout", cacheKey, data, cache.LayoutTTL)
	}
	return cells, cacheKey, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layoutKey string, days []voronoi.Day, cells []voronoi.Cell, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format, days))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderAll(Mosaic(days, cells, opts), opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format, days))
		r.store(ctx, "artifact", cacheKey, data, cache.ArtifactTTL)
	}
	return rendered, false, nil // Cache miss
}

// ExecuteYear renders every month of opts.Year concurrently. monthDays
// supplies the day list for each month. The returned slice is indexed by
// month-1.
func (r *Runner) ExecuteYear(ctx context.Context, monthDays func(time.Month) []voronoi.Day, opts Options) ([]*Result, error) {
	results := make([]*Result, 12)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(yearConcurrency)
	for m := time.January; m <= time.December; m++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			monthOpts := opts
			monthOpts.Month = m
			monthOpts.Formats = append([]string(nil), opts.Formats...)
			res, err := r.Execute(ctx, monthDays(m), monthOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", m, err)
			}
			results[m-1] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
