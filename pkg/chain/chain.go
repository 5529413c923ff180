// Package chain models habit chains: a named habit with a start date and
// the set of days on which it was completed.
//
// A [Chain] is a plain value; persistence goes through a [Store] and the
// mutation rules (validation, timestamps, logging) live in [Service].
// [Chain.MonthDays] produces the ordered day list that the Voronoi
// generator lays out as a mosaic.
package chain

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// Palette holds the colours assigned to new chains.
var Palette = []string{
	"#4A90E2", "#50C878", "#FF6B6B", "#FFD93D",
	"#9B59B6", "#E67E22", "#1ABC9C", "#34495E",
}

// Chain is a habit and its completion history.
type Chain struct {
	ID          string     `json:"id" yaml:"id" bson:"_id"`
	Name        string     `json:"name" yaml:"name" bson:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Goal        string     `json:"goal,omitempty" yaml:"goal,omitempty" bson:"goal,omitempty"`
	Color       string     `json:"color" yaml:"color" bson:"color"`
	StartDate   time.Time  `json:"start_date" yaml:"start_date" bson:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" yaml:"end_date,omitempty" bson:"end_date,omitempty"`

	// Days maps completed day keys (YYYY-MM-DD) to true. Days that are not
	// completed are absent.
	Days map[string]bool `json:"days" yaml:"days" bson:"days"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" bson:"updated_at"`
}

// New returns a chain with a fresh ID and a palette colour. The start date
// is truncated to its calendar day.
func New(name, description, goal string, start time.Time) *Chain {
	id := uuid.New()
	now := time.Now().UTC()
	return &Chain{
		ID:          id.String(),
		Name:        name,
		Description: description,
		Goal:        goal,
		Color:       Palette[int(id[0])%len(Palette)],
		StartDate:   Midnight(start),
		Days:        map[string]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the user-editable fields.
func (c *Chain) Validate() error {
	if err := errors.ValidateChainName(c.Name); err != nil {
		return err
	}
	if err := errors.ValidateText("description", c.Description); err != nil {
		return err
	}
	if err := errors.ValidateText("goal", c.Goal); err != nil {
		return err
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return errors.New(errors.ErrCodeInvalidDate, "end date %s is before start date %s",
			DayKey(*c.EndDate), DayKey(c.StartDate))
	}
	return nil
}

// DayKey returns the YYYY-MM-DD key for the calendar day of t in t's own
// location.
func DayKey(t time.Time) string {
	return t.Format(errors.DayLayout)
}

// Midnight returns the calendar day of t as midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsCompleted reports whether the day of t is marked completed.
func (c *Chain) IsCompleted(t time.Time) bool {
	return c.Days[DayKey(t)]
}

// SetDay marks the day of t as completed or not.
func (c *Chain) SetDay(t time.Time, completed bool) {
	if c.Days == nil {
		c.Days = map[string]bool{}
	}
	key := DayKey(t)
	if completed {
		c.Days[key] = true
	} else {
		delete(c.Days, key)
	}
}

// Toggle flips the completion of the day of t and returns the new state.
func (c *Chain) Toggle(t time.Time) bool {
	done := !c.IsCompleted(t)
	c.SetDay(t, done)
	return done
}

// MonthDays returns one entry per day of the month in day order, with the
// completion state taken from the chain.
func (c *Chain) MonthDays(year int, month time.Month) []voronoi.Day {
	n := DaysIn(year, month)
	days := make([]voronoi.Day, n)
	for i := range days {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
		days[i] = voronoi.Day{Date: date, Completed: c.IsCompleted(date)}
	}
	return days
}

// CompletedCount returns the number of completed days.
func (c *Chain) CompletedCount() int {
	n := 0
	for _, done := range c.Days {
		if done {
			n++
		}
	}
	return n
}

// Stats summarizes a chain's progress.
type Stats struct {
	Completed     int     `json:"completed"`
	Total         int     `json:"total"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	Rate          float64 `json:"rate"`
}

// Stats computes progress as of now. Total is the number of days between
// the start date and the end date (or now), and never less than the
// number of completed days.
func (c *Chain) Stats(now time.Time) Stats {
	end := now
	if c.EndDate != nil {
		end = *c.EndDate
	}

	completed := c.CompletedCount()
	span := int(math.Ceil(end.Sub(c.StartDate).Hours() / 24))
	s := Stats{
		Completed:     completed,
		Total:         max(span, completed),
		CurrentStreak: c.currentStreak(now),
		LongestStreak: c.longestStreak(),
	}
	if s.Total > 0 {
		s.Rate = float64(s.Completed) / float64(s.Total)
	}
	return s
}

// currentStreak counts consecutive completed days ending today. A streak
// that ended yesterday is still current until today is over.
func (c *Chain) currentStreak(now time.Time) int {
	day := Midnight(now)
	if !c.IsCompleted(day) {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for c.IsCompleted(day) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func (c *Chain) longestStreak() int {
	dates := make([]time.Time, 0, len(c.Days))
	for key, done := range c.Days {
		if !done {
			continue
		}
		if t, err := errors.ParseDayKey(key); err == nil {
			dates = append(dates, t)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && dates[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// Clone returns a deep copy of c.
func (c *Chain) Clone() *Chain {
	out := *c
	if c.EndDate != nil {
		end := *c.EndDate
		out.EndDate = &end
	}
	out.Days = make(map[string]bool, len(c.Days))
	for k, v := range c.Days {
		out.Days[k] = v
	}
	return &out
}
