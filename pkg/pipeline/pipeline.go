// Package pipeline runs the generate → render pipeline for month mosaics.
//
// This package implements the complete pipeline that both the CLI and the
// HTTP server use. By centralizing this logic, both entry points cache and
// render the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: Lay out the month's days as Voronoi cells
//  2. Render: Produce SVG, PNG or JSON artifacts for the cells
//
// The generate stage is cached by geometry only (day count, year, month,
// canvas size and step range), so toggling a day reuses the layout. The
// render stage is cached by layout plus completion state and theme.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, c.MonthDays(2024, time.February), pipeline.Options{
//	    Formats: []string{"svg"},
//	    Color:   c.Color,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [Runner.ExecuteYear] renders all twelve months of a year concurrently.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/habitmosaic/pkg/cache"
	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 300.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 300.0

	// DefaultMinSizePercent is the default lower bound of the chain step.
	DefaultMinSizePercent = voronoi.DefaultMinSizePercent

	// DefaultMaxSizePercent is the default upper bound of the chain step.
	DefaultMaxSizePercent = voronoi.DefaultMaxSizePercent
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one month render.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options. Year and Month default to the first day's date.
	Year           int        `json:"year,omitempty"`
	Month          time.Month `json:"month,omitempty"`
	Width          float64    `json:"width,omitempty"`
	Height         float64    `json:"height,omitempty"`
	MinSizePercent float64    `json:"min_size_percent,omitempty"`
	MaxSizePercent float64    `json:"max_size_percent,omitempty"`
	Refresh        bool       `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Color      string   `json:"color,omitempty"`
	Title      string   `json:"title,omitempty"`
	DayNumbers bool     `json:"day_numbers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Year  int
	Month time.Month

	// Days is the day list the mosaic was rendered from.
	Days []voronoi.Day

	// Cells is the generated geometry, one cell per day.
	Cells []voronoi.Cell

	// LayoutKey is the cache key of the geometry. API responses use it
	// as an ETag-like identifier.
	LayoutKey string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// LabelIndex returns the day index of the month label cell, or -1.
func (r *Result) LabelIndex() int {
	for _, c := range r.Cells {
		if c.IsMonthLabel {
			return c.DayIndex
		}
	}
	return -1
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DayCount     int
	CellCount    int
	Completed    int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the cells came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list such as "svg,png".
// Blank entries are dropped and names are lower-cased.
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields. Year and Month are taken from days[0] when
// unset.
func (o *Options) SetDefaults(days []voronoi.Day) {
	if len(days) > 0 {
		first := days[0].Date
		if o.Year == 0 {
			o.Year = first.Year()
		}
		if o.Month == 0 {
			o.Month = first.Month()
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MinSizePercent == 0 {
		o.MinSizePercent = DefaultMinSizePercent
	}
	if o.MaxSizePercent == 0 {
		o.MaxSizePercent = DefaultMaxSizePercent
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks options after defaults have been applied.
func (o *Options) Validate() error {
	if err := errors.ValidateMonth(o.Year, o.Month); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidatePercents(o.MinSizePercent, o.MaxSizePercent); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults applies defaults for days and validates the result.
func (o *Options) ValidateAndSetDefaults(days []voronoi.Day) error {
	o.SetDefaults(days)
	if err := o.Validate(); err != nil {
		return err
	}
	if len(days) > 0 && (days[0].Date.Year() != o.Year || days[0].Date.Month() != o.Month) {
		return errors.New(errors.ErrCodeInvalidInput, "days start in %s, options name %s %d",
			days[0].Date.Format("2006-01"), o.Month, o.Year)
	}
	return nil
}

// GeneratorOptions returns the options passed to the Voronoi generator.
func (o *Options) GeneratorOptions() *voronoi.Options {
	return &voronoi.Options{
		MinSizePercent: o.MinSizePercent,
		MaxSizePercent: o.MaxSizePercent,
		Logger:         o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for a layout of dayCount days.
func (o *Options) LayoutKeyOpts(dayCount int) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		DayCount:       dayCount,
		Year:           o.Year,
		Month:          o.Month,
		Width:          o.Width,
		Height:         o.Height,
		MinSizePercent: o.MinSizePercent,
		MaxSizePercent: o.MaxSizePercent,
	}
}

// ArtifactKeyOpts returns cache key options for rendering days in format.
func (o *Options) ArtifactKeyOpts(format string, days []voronoi.Day) cache.ArtifactKeyOpts {
	completed := make([]bool, len(days))
	for i, d := range days {
		completed[i] = d.Completed
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Completed:  completed,
		Theme:      o.Color,
		Title:      o.Title,
		DayNumbers: o.DayNumbers,
	}
}

// BlankDays returns n days starting on the first of month, none completed.
// n <= 0 means the month's real length.
func BlankDays(year int, month time.Month, n int) []voronoi.Day {
	if n <= 0 {
		n = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	days := make([]voronoi.Day, n)
	for i := range days {
		days[i] = voronoi.Day{Date: time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)}
	}
	return days
}
