package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// Month view styles
var (
	monthDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	monthPendingStyle = lipgloss.NewStyle().Foreground(colorWhite)
	monthLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	monthCursorStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
)

var weekdayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// tuiCommand opens the interactive month view for a chain.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <chain-id>",
		Short: "Toggle days of a chain interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeSvc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()
			ch, err := resolveChain(ctx, svc, args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := NewMonthModel(ctx, svc, ch, c.labelFinder(runner), time.Now())
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// labelFinder returns the label cell lookup used by the month view. It
// uses the same cached layout as render and the API at the configured
// canvas size.
func (c *CLI) labelFinder(runner *pipeline.Runner) LabelFunc {
	return func(ctx context.Context, days []voronoi.Day) (int, error) {
		opts := c.renderDefaults()
		opts.Formats = nil
		if err := opts.ValidateAndSetDefaults(days); err != nil {
			return -1, err
		}
		cells, _, _, err := runner.GenerateWithCacheInfo(ctx, days, opts)
		if err != nil {
			return -1, err
		}
		for _, cell := range cells {
			if cell.IsMonthLabel {
				return cell.DayIndex, nil
			}
		}
		return -1, nil
	}
}

// =============================================================================
// MonthModel - Interactive month view
// =============================================================================

// LabelFunc reports the day index occupied by the month label.
type LabelFunc func(ctx context.Context, days []voronoi.Day) (int, error)

// MonthModel is the bubbletea model for toggling days of one month.
type MonthModel struct {
	ctx     context.Context
	svc     *chain.Service
	chain   *chain.Chain
	labelOf LabelFunc

	Year   int
	Month  time.Month
	Days   []voronoi.Day
	Label  int
	Cursor int

	Status string
	Err    error
}

type monthLoadedMsg struct {
	year  int
	month time.Month
	days  []voronoi.Day
	label int
	err   error
}

type dayToggledMsg struct {
	index int
	done  bool
	err   error
}

// NewMonthModel creates a month view positioned on today.
func NewMonthModel(ctx context.Context, svc *chain.Service, ch *chain.Chain, labelOf LabelFunc, today time.Time) MonthModel {
	return MonthModel{
		ctx:     ctx,
		svc:     svc,
		chain:   ch,
		labelOf: labelOf,
		Year:    today.Year(),
		Month:   today.Month(),
		Label:   -1,
		Cursor:  today.Day() - 1,
	}
}

func (m MonthModel) Init() tea.Cmd {
	return m.load(m.Year, m.Month)
}

func (m MonthModel) load(year int, month time.Month) tea.Cmd {
	return func() tea.Msg {
		days, err := m.svc.MonthData(m.ctx, m.chain.ID, year, month)
		if err != nil {
			return monthLoadedMsg{err: err}
		}
		label, err := m.labelOf(m.ctx, days)
		return monthLoadedMsg{year: year, month: month, days: days, label: label, err: err}
	}
}

func (m MonthModel) toggle(index int) tea.Cmd {
	date := m.Days[index].Date
	return func() tea.Msg {
		done, err := m.svc.ToggleDay(m.ctx, m.chain.ID, date)
		return dayToggledMsg{index: index, done: done, err: err}
	}
}

func (m MonthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Year, m.Month, m.Days, m.Label = msg.year, msg.month, msg.days, msg.label
		m.Cursor = clamp(m.Cursor, 0, len(m.Days)-1)
		return m, nil

	case dayToggledMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Days[msg.index].Completed = msg.done
		m.Status = fmt.Sprintf("%s %s", chain.DayKey(m.Days[msg.index].Date), doneWord(msg.done))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Cursor = clamp(m.Cursor-1, 0, len(m.Days)-1)
		case "right", "l":
			m.Cursor = clamp(m.Cursor+1, 0, len(m.Days)-1)
		case "up", "k":
			m.Cursor = clamp(m.Cursor-7, 0, len(m.Days)-1)
		case "down", "j":
			m.Cursor = clamp(m.Cursor+7, 0, len(m.Days)-1)
		case "n":
			y, mo := shiftMonth(m.Year, m.Month, 1)
			return m, m.load(y, mo)
		case "p":
			y, mo := shiftMonth(m.Year, m.Month, -1)
			return m, m.load(y, mo)
		case " ", "enter":
			if m.Cursor < 0 || m.Cursor >= len(m.Days) {
				return m, nil
			}
			if m.Cursor == m.Label {
				m.Status = "the month label cell cannot be toggled"
				return m, nil
			}
			return m, m.toggle(m.Cursor)
		}
	}
	return m, nil
}

func (m MonthModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.chain.Name))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s %d", chain.MonthName(m.Month), m.Year)))
	b.WriteString("\n")
	b.WriteString(monthDimStyle.Render("←/→/↑/↓ move  space toggle  n/p month  q quit"))
	b.WriteString("\n\n")

	if len(m.Days) == 0 {
		if m.Err != nil {
			b.WriteString(StyleWarning.Render(m.Err.Error()))
		} else {
			b.WriteString(monthDimStyle.Render("loading..."))
		}
		return b.String()
	}

	rows, offset := calendarRows(m.Days, m.Label)
	done := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.chain.Color))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(weekdayHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return base.Foreground(colorGray).Bold(true)
			}
			idx := row*7 + col - offset
			if idx < 0 || idx >= len(m.Days) {
				return base
			}
			var s lipgloss.Style
			switch {
			case idx == m.Label:
				s = monthLabelStyle
			case m.Days[idx].Completed:
				s = done
			default:
				s = monthPendingStyle
			}
			if idx == m.Cursor {
				s = s.Inherit(monthCursorStyle)
			}
			return base.Inherit(s)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	completed := 0
	for _, d := range m.Days {
		if d.Completed {
			completed++
		}
	}
	b.WriteString(monthDimStyle.Render(fmt.Sprintf("  %d/%d days done", completed, len(m.Days))))
	if m.Status != "" {
		b.WriteString(monthDimStyle.Render("  ·  " + m.Status))
	}
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.Err.Error()))
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// calendarRows lays days out Monday-first, with the label day showing the
// month abbreviation. offset is the number of blank cells before the first
// day.
func calendarRows(days []voronoi.Day, label int) ([][]string, int) {
	offset := (int(days[0].Date.Weekday()) + 6) % 7

	var rows [][]string
	row := make([]string, 7)
	for i := 0; i < offset+len(days); i++ {
		col := i % 7
		switch idx := i - offset; {
		case idx < 0:
		case idx == label:
			row[col] = chain.MonthShort(days[0].Date.Month())
		default:
			row[col] = fmt.Sprintf("%2d", idx+1)
		}
		if col == 6 || i == offset+len(days)-1 {
			rows = append(rows, row)
			row = make([]string, 7)
		}
	}
	return rows, offset
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func doneWord(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
