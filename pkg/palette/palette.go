// Package palette holds the color conventions shared by every diagram.
//
// The Azure palette drives the light infographics, Midnight drives the dark
// presentation variant and Slide drives the Graphviz workflow graphs, which
// were designed against the slide deck's dark theme.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Azure-inspired palette used by the light infographics.
const (
	Primary   = "#0078D4" // Azure blue
	Secondary = "#50E6FF" // light azure
	Accent    = "#00B294" // teal
	Warning   = "#FFB900"
	Danger    = "#D13438"
	Success   = "#107C10"
	Purple    = "#5C2D91"
	Orange    = "#D83B01"
	Dark      = "#201F1E"
	Light     = "#F3F2F1"
	White     = "#FFFFFF"
	Gold      = "#D4A017"
)

// WAF pillar colors.
const (
	Security    = Danger
	Reliability = Primary
	Performance = Success
	Cost        = Warning
	Operations  = Purple
)

// Step card fills and borders of the light workflow infographics.
const (
	Step1       = "#E1F5FE" // requirements
	Step2       = "#FFF3E0" // architecture
	Step3       = "#E8F5E9" // planning
	Step4       = "#FCE4EC" // implementation
	Step1Border = Primary
	Step2Border = Orange
	Step3Border = Success
	Step4Border = Purple

	DesignFill   = "#F3E5F5"
	DesignBorder = "#7B1FA2"
	DeployFill   = "#FFF3E0"
	DeployBorder = "#F57C00"
	DocsFill     = "#E3F2FD"
	DocsBorder   = "#1976D2"
)

// DarkTheme is the palette of the dark presentation infographic.
type DarkTheme struct {
	Background    string
	Text          string
	TextSecondary string
	Cyan          string
	Orange        string
	PurpleLight   string
	Green         string
	Pink          string
	Teal          string
	Purple        string
	OrangeLight   string
}

// Midnight is the dark presentation theme.
var Midnight = DarkTheme{
	Background:    "#1E1E2E",
	Text:          "#FFFFFF",
	TextSecondary: "#B4B4B4",
	Cyan:          "#22D3EE",
	Orange:        "#F97316",
	PurpleLight:   "#A78BFA",
	Green:         "#22C55E",
	Pink:          "#EC4899",
	Teal:          "#14B8A6",
	Purple:        "#8B5CF6",
	OrangeLight:   "#FB923C",
}

// SlideTheme is the palette shared by the Graphviz workflow graphs.
type SlideTheme struct {
	Orange    string // title accent
	Coral     string
	Blue      string
	Green     string
	Yellow    string
	Purple    string
	Pink      string
	Teal      string
	Gray      string
	DarkBg    string
	LightGray string
	Cyan      string
	CardBg    string
	CardPen   string
	SubPen    string
}

// Slide is the slide-deck theme.
var Slide = SlideTheme{
	Orange:    "#FF6B35",
	Coral:     "#f4722b",
	Blue:      "#0078D4",
	Green:     "#10b981",
	Yellow:    "#fbbf24",
	Purple:    "#8b5cf6",
	Pink:      "#ec4899",
	Teal:      "#14b8a6",
	Gray:      "#64748b",
	DarkBg:    "#1a1a2e",
	LightGray: "#94a3b8",
	Cyan:      "#06b6d4",
	CardBg:    "#16213e",
	CardPen:   "#0f3460",
	SubPen:    "#334155",
}

var named = map[string]color.NRGBA{
	"white":       {0xFF, 0xFF, 0xFF, 0xFF},
	"black":       {0x00, 0x00, 0x00, 0xFF},
	"gray":        {0x80, 0x80, 0x80, 0xFF},
	"grey":        {0x80, 0x80, 0x80, 0xFF},
	"lightgrey":   {0xD3, 0xD3, 0xD3, 0xFF},
	"none":        {},
	"transparent": {},
}

// Parse converts "#RGB", "#RRGGBB", "#RRGGBBAA" or one of a few named colors
// into an NRGBA value.
func Parse(s string) (color.NRGBA, error) {
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustParse is like Parse but panics on malformed input.
// It is meant for the literal palette constants above.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha scales the alpha channel of c by a, clamped to [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	a = min(max(a, 0), 1)
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

// IsNone reports whether s names the absent color.
func IsNone(s string) bool {
	return s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "transparent")
}
