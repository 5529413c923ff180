package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// Mosaic is everything a sink needs to draw one month.
type Mosaic struct {
	Year   int
	Month  time.Month
	Width  float64
	Height float64
	Days   []voronoi.Day
	Cells  []voronoi.Cell
	Theme  Theme
	Title  string
}

// Label returns the text drawn in the month label cell.
func (m Mosaic) Label() string { return chain.MonthShort(m.Month) }

func (m Mosaic) title() string {
	if m.Title != "" {
		return m.Title
	}
	return fmt.Sprintf("%s %d", chain.MonthName(m.Month), m.Year)
}

func (m Mosaic) completed(c voronoi.Cell) bool {
	return c.DayIndex >= 0 && c.DayIndex < len(m.Days) && m.Days[c.DayIndex].Completed
}

// CellClass is the CSS class of a cell: "month-label", "completed" or
// "pending".
func (m Mosaic) CellClass(c voronoi.Cell) string {
	switch {
	case c.IsMonthLabel:
		return "month-label"
	case m.completed(c):
		return "completed"
	default:
		return "pending"
	}
}

func (m Mosaic) fill(c voronoi.Cell, t Theme) string {
	switch m.CellClass(c) {
	case "month-label":
		return t.Label
	case "completed":
		return t.Completed
	default:
		return t.Pending
	}
}

// dayNumber is the 1-based day of month drawn inside a cell.
func dayNumber(c voronoi.Cell) string {
	return fmt.Sprint(c.DayIndex + 1)
}

// Filename returns a stable artifact name such as "2024-02.svg".
func Filename(year int, month time.Month, format string) string {
	return fmt.Sprintf("%04d-%02d.%s", year, int(month), strings.ToLower(format))
}
