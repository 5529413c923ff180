package voronoi

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func monthDays(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var days []Day
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, Day{Date: d})
	}
	return days
}

func TestGenerateFebruary(t *testing.T) {
	days := monthDays(2024, time.February)
	cells := Generate(days, 300, 300, nil)

	if len(cells) != 28 {
		t.Fatalf("got %d cells, want 28", len(cells))
	}

	labels := 0
	b := Bounds(300, 300)
	for i, c := range cells {
		if c.ID != i || c.DayIndex != i {
			t.Errorf("cell %d: id=%d day_index=%d", i, c.ID, c.DayIndex)
		}
		if c.IsMonthLabel {
			labels++
		}
		if !strings.HasPrefix(c.Path, "M ") || !strings.HasSuffix(c.Path, " Z") {
			t.Errorf("cell %d: malformed path %q", i, c.Path)
		}
		if !b.Contains(c.Centroid, 1e-6) {
			t.Errorf("cell %d: centroid %+v outside bounds", i, c.Centroid)
		}
		if len(c.Points) == 0 {
			t.Errorf("cell %d: no points", i)
		}
	}
	if labels != 1 {
		t.Errorf("got %d label cells, want 1", labels)
	}
}

func TestGenerateAllMonths(t *testing.T) {
	sizes := [][2]float64{{300, 300}, {400, 250}, {200, 200}}
	for year := 2023; year <= 2025; year++ {
		for m := time.January; m <= time.December; m++ {
			days := monthDays(year, m)
			for _, sz := range sizes {
				d := Build(len(days), year, int(m)-1, sz[0], sz[1], nil)
				for i, poly := range d.Polygons {
					if len(poly) < 3 {
						t.Errorf("%d-%02d %vx%v: cell %d is empty", year, m, sz[0], sz[1], i)
					}
				}
				for i, s := range d.Repelled {
					if !d.Bounds.Contains(s, 1e-9) {
						t.Errorf("%d-%02d %vx%v: seed %d outside bounds", year, m, sz[0], sz[1], i)
					}
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	days := monthDays(2025, time.March)
	a := Generate(days, 300, 300, nil)
	b := Generate(days, 300, 300, nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("Generate should be deterministic")
	}

	// Completion state does not affect geometry.
	for i := range days {
		days[i].Completed = i%2 == 0
	}
	c := Generate(days, 300, 300, nil)
	if !reflect.DeepEqual(a, c) {
		t.Error("completion state changed the layout")
	}
}

func TestGenerateSingleDay(t *testing.T) {
	days := []Day{{Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)}}
	d := Build(len(days), 2024, 4, 300, 300, nil)

	if d.LabelIndex != 0 {
		t.Errorf("LabelIndex = %d, want 0", d.LabelIndex)
	}
	want := d.Bounds.Polygon()
	if !reflect.DeepEqual(d.Polygons[0], want) {
		t.Errorf("single cell = %+v, want bounds %+v", d.Polygons[0], want)
	}

	cells := d.Cells()
	if len(cells) != 1 || !cells[0].IsMonthLabel {
		t.Errorf("expected one label cell, got %+v", cells)
	}
}

func TestGenerateEmpty(t *testing.T) {
	cells := Generate(nil, 300, 300, nil)
	if cells == nil || len(cells) != 0 {
		t.Errorf("Generate(nil) = %#v, want empty slice", cells)
	}
}

func TestGenerateOptions(t *testing.T) {
	days := monthDays(2024, time.January)
	def := Generate(days, 300, 300, nil)
	explicit := Generate(days, 300, 300, &Options{
		MinSizePercent: DefaultMinSizePercent,
		MaxSizePercent: DefaultMaxSizePercent,
	})
	if !reflect.DeepEqual(def, explicit) {
		t.Error("explicit defaults should match nil options")
	}

	wide := Generate(days, 300, 300, &Options{MinSizePercent: 60, MaxSizePercent: 140})
	if reflect.DeepEqual(def, wide) {
		t.Error("step range should affect the layout")
	}
}

func TestCellsLogsEmptyPolygon(t *testing.T) {
	var buf bytes.Buffer
	d := &Diagram{
		Bounds:     Bounds(300, 300),
		Repelled:   []Point{{X: 1, Y: 2}},
		Polygons:   []Polygon{{}},
		LabelIndex: 0,
		logger:     log.New(&buf),
	}

	cells := d.Cells()
	if cells[0].Centroid != (Point{X: 1, Y: 2}) {
		t.Errorf("centroid = %+v, want seed", cells[0].Centroid)
	}
	if cells[0].Path != "" {
		t.Errorf("path = %q, want empty", cells[0].Path)
	}
	if !strings.Contains(buf.String(), "empty voronoi cell") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}
