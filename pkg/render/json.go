package render

import (
	"encoding/json"

	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

type jsonOutput struct {
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	MonthName  string     `json:"month_name"`
	Label      string     `json:"label"`
	Title      string     `json:"title"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	LabelIndex int        `json:"label_index"`
	Completed  int        `json:"completed"`
	Theme      Theme      `json:"theme"`
	Cells      []jsonCell `json:"cells"`
}

type jsonCell struct {
	voronoi.Cell
	Date      string `json:"date,omitempty"`
	Class     string `json:"class"`
	Completed bool   `json:"completed"`
}

// RenderJSON emits the mosaic as a JSON document with one entry per cell,
// each annotated with its date and completion state.
func RenderJSON(m Mosaic) ([]byte, error) {
	out := jsonOutput{
		Year:       m.Year,
		Month:      int(m.Month),
		MonthName:  m.Month.String(),
		Label:      m.Label(),
		Title:      m.title(),
		Width:      m.Width,
		Height:     m.Height,
		LabelIndex: -1,
		Theme:      m.Theme.withDefaults(),
		Cells:      make([]jsonCell, 0, len(m.Cells)),
	}
	for _, c := range m.Cells {
		jc := jsonCell{Cell: c, Class: m.CellClass(c), Completed: m.completed(c)}
		if c.DayIndex >= 0 && c.DayIndex < len(m.Days) {
			jc.Date = m.Days[c.DayIndex].Date.Format(errors.DayLayout)
		}
		if c.IsMonthLabel {
			out.LabelIndex = c.DayIndex
		}
		if jc.Completed {
			out.Completed++
		}
		out.Cells = append(out.Cells, jc)
	}
	return json.MarshalIndent(out, "", "  ")
}
