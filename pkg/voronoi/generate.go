package voronoi

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMinSizePercent is the default lower bound of the chain step
	// length, in percent of the average spacing.
	DefaultMinSizePercent = 90.0

	// DefaultMaxSizePercent is the default upper bound of the chain step
	// length, in percent of the average spacing.
	DefaultMaxSizePercent = 110.0

	// CellGap is the inset applied to ordinary day cells.
	CellGap = 3.0

	// LabelGap is the inset applied to the month label cell.
	LabelGap = CellGap * 0.5

	// SmoothIterations is the number of Chaikin passes per cell.
	SmoothIterations = 2
)

// Day is one entry of the ordered day list for a month. Index i is the
// (i+1)-th day of the month.
type Day struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// Cell is the renderable geometry for one day.
type Cell struct {
	ID           int    `json:"id"`
	Centroid     Point  `json:"centroid"`
	Path         string `json:"path"`
	DayIndex     int    `json:"day_index"`
	IsMonthLabel bool   `json:"is_month_label"`

	// Points is the smoothed ring that Path interpolates. Raster sinks use
	// it instead of parsing Path.
	Points []Point `json:"-"`
}

// Options configures [Generate] and [Build]. A nil *Options uses the
// defaults.
type Options struct {
	// MinSizePercent and MaxSizePercent bound the chain step length as a
	// percentage of the average spacing. Zero means the default (90/110).
	// Callers must keep 0 < MinSizePercent <= MaxSizePercent.
	MinSizePercent float64
	MaxSizePercent float64

	// Logger receives warnings about degenerate cells. Nil discards them.
	Logger *log.Logger
}

func (o *Options) resolve() Options {
	var r Options
	if o != nil {
		r = *o
	}
	if r.MinSizePercent == 0 {
		r.MinSizePercent = DefaultMinSizePercent
	}
	if r.MaxSizePercent == 0 {
		r.MaxSizePercent = DefaultMaxSizePercent
	}
	if r.Logger == nil {
		r.Logger = log.New(io.Discard)
	}
	return r
}

// Diagram holds every intermediate stage of a generated month. It is
// mostly useful for inspection; [Generate] is the usual entry point.
type Diagram struct {
	Bounds     Rect      `json:"bounds"`
	Spacing    float64   `json:"spacing"`
	Seeds      []Point   `json:"seeds"`
	Relaxed    []Point   `json:"relaxed"`
	Repelled   []Point   `json:"repelled"`
	Polygons   []Polygon `json:"polygons"`
	LabelIndex int       `json:"label_index"`

	logger *log.Logger
}

// Build runs the seed, relaxation, label and clipping stages for a month
// with dayCount days. month0 is zero-based (January = 0).
func Build(dayCount, year, month0 int, width, height float64, opts *Options) *Diagram {
	o := opts.resolve()
	b := Bounds(width, height)
	d := &Diagram{Bounds: b, LabelIndex: -1, logger: o.Logger}
	if dayCount <= 0 {
		return d
	}

	rng := NewRand(SeedFor(dayCount, year, month0))
	d.Spacing = AverageSpacing(b, dayCount)
	d.Seeds = GenerateSeeds(dayCount, b, rng, o.MinSizePercent, o.MaxSizePercent)
	d.Relaxed = Relax(d.Seeds, b, relaxIterations)
	d.LabelIndex = SelectLabel(d.Relaxed, b)
	d.Repelled = Repel(d.Relaxed, d.LabelIndex, d.Spacing*labelClearance)
	d.Polygons = BuildDiagram(d.Repelled, b)
	return d
}

// Cells post-processes the final polygons into renderable cells.
func (d *Diagram) Cells() []Cell {
	cells := make([]Cell, len(d.Polygons))
	for i, poly := range d.Polygons {
		isLabel := i == d.LabelIndex
		gap := CellGap
		if isLabel {
			gap = LabelGap
		}

		if len(poly) == 0 && d.logger != nil {
			d.logger.Warn("empty voronoi cell", "day_index", i, "seed", d.Repelled[i])
		}

		smooth := Chaikin(Inset(poly, gap), SmoothIterations)
		center := d.Repelled[i]
		if !smooth.Degenerate() {
			center, _ = smooth.Centroid()
		}

		cells[i] = Cell{
			ID:           i,
			Centroid:     center,
			Path:         PathData(smooth),
			DayIndex:     i,
			IsMonthLabel: isLabel,
			Points:       smooth,
		}
	}
	return cells
}

// Generate lays out days as a mosaic on a width x height canvas and returns
// one cell per day in day order. The year and month are taken from the
// first day. An empty day list yields an empty slice.
//
// Callers must pass width and height larger than 2*[Padding].
func Generate(days []Day, width, height float64, opts *Options) []Cell {
	if len(days) == 0 {
		return []Cell{}
	}
	first := days[0].Date
	return Build(len(days), first.Year(), int(first.Month())-1, width, height, opts).Cells()
}
