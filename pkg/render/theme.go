package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is used when a chain has no valid colour.
const DefaultColor = "#4CAF50"

// Theme is the set of colours a mosaic is drawn with. All values are
// "#rrggbb" hex strings.
type Theme struct {
	Completed  string `json:"completed"`
	Pending    string `json:"pending"`
	Label      string `json:"label"`
	Stroke     string `json:"stroke"`
	Text       string `json:"text"`
	LabelText  string `json:"label_text"`
	Background string `json:"background"`
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// ThemeFor derives a theme from a chain colour. Invalid colours fall back
// to [DefaultColor].
func ThemeFor(hex string) Theme {
	base, err := colorful.Hex(hex)
	if err != nil {
		base, _ = colorful.Hex(DefaultColor)
	}
	return Theme{
		Completed:  base.Clamped().Hex(),
		Pending:    base.BlendLab(white, 0.82).Clamped().Hex(),
		Label:      base.BlendLab(black, 0.35).Clamped().Hex(),
		Stroke:     "#ffffff",
		Text:       base.BlendLab(black, 0.6).Clamped().Hex(),
		LabelText:  "#ffffff",
		Background: "#ffffff",
	}
}

// DefaultTheme is the theme for [DefaultColor].
func DefaultTheme() Theme { return ThemeFor(DefaultColor) }

// withDefaults fills empty fields from the default theme.
func (t Theme) withDefaults() Theme {
	d := DefaultTheme()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.Completed, d.Completed)
	fill(&t.Pending, d.Pending)
	fill(&t.Label, d.Label)
	fill(&t.Stroke, d.Stroke)
	fill(&t.Text, d.Text)
	fill(&t.LabelText, d.LabelText)
	fill(&t.Background, d.Background)
	return t
}

// rgba parses a hex colour for raster output. Unparseable values become
// opaque black.
func rgba(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
