package cache

import (
	"strings"
	"time"
)

// Keyer generates cache keys for pipeline entries.
type Keyer interface {
	LayoutKey(opts LayoutKeyOpts) string
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input that determines a month layout.
type LayoutKeyOpts struct {
	DayCount       int        `json:"day_count"`
	Year           int        `json:"year"`
	Month          time.Month `json:"month"`
	Width          float64    `json:"width"`
	Height         float64    `json:"height"`
	MinSizePercent float64    `json:"min_size_percent"`
	MaxSizePercent float64    `json:"max_size_percent"`
}

// ArtifactKeyOpts holds the inputs that affect a rendered document on top
// of its layout.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Completed  []bool `json:"-"`
	Theme      string `json:"theme"`
	Title      string `json:"title"`
	DayNumbers bool   `json:"day_numbers"`
}

// completionBits renders the completion flags as a compact "1010..." string.
func (o ArtifactKeyOpts) completionBits() string {
	var b strings.Builder
	b.Grow(len(o.Completed))
	for _, c := range o.Completed {
		if c {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ArtifactKey returns "artifact:<hash>" derived from the layout key, the
// completion bits and the render options.
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutKey, opts.completionBits(), opts)
}
