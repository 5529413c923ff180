package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateCells lays out days with the generator. It is the uncached
// generate stage.
func GenerateCells(days []voronoi.Day, opts Options) []voronoi.Cell {
	d := voronoi.Build(len(days), opts.Year, int(opts.Month)-1, opts.Width, opts.Height, opts.GeneratorOptions())
	return d.Cells()
}

// layoutEntry is the cached form of a layout. Cell points are not part of
// the public JSON shape of a cell, so they travel alongside.
type layoutEntry struct {
	Cells  []voronoi.Cell    `json:"cells"`
	Points [][]voronoi.Point `json:"points"`
}

// MarshalLayout serializes cells including their smoothed rings.
func MarshalLayout(cells []voronoi.Cell) ([]byte, error) {
	e := layoutEntry{Cells: cells, Points: make([][]voronoi.Point, len(cells))}
	for i, c := range cells {
		e.Points[i] = c.Points
	}
	return json.Marshal(e)
}

// UnmarshalLayout restores cells written by [MarshalLayout].
func UnmarshalLayout(data []byte) ([]voronoi.Cell, error) {
	var e layoutEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if len(e.Points) != len(e.Cells) {
		return nil, fmt.Errorf("decode layout: %d cells but %d point rings", len(e.Cells), len(e.Points))
	}
	for i := range e.Cells {
		e.Cells[i].Points = e.Points[i]
	}
	return e.Cells, nil
}
