package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// ColorMap maps a normalized value in [0, 1] to a color.
type ColorMap interface {
	At(t float64) color.Color
}

type UnknownColorSchemeError struct {
	Name string
	Err  error
}

func (e *UnknownColorSchemeError) Error() string {
	return fmt.Sprintf("unknown color scheme %q: %v", e.Name, e.Err)
}

func (e *UnknownColorSchemeError) Unwrap() error {
	return e.Err
}

// Scheme names of the curated charts that are not ColorBrewer names.
var schemeAliases = map[string]string{
	"seagreen": "Greens",
	"flare":    "OrRd",
}

// Sequential ColorBrewer palettes go from light (low) to dark (high).
const brewerLevels = 9

// LookupColorScheme resolves a scheme name: "diverging" (blue to red), one of
// the aliases above, or any ColorBrewer palette name with 9 levels.
func LookupColorScheme(name string) (ColorMap, error) {
	switch strings.ToLower(name) {
	case "diverging", "bluered":
		cm := moreland.SmoothBlueRed()
		cm.SetMax(1)
		cm.SetMin(0)
		return continuous{cm}, nil
	}

	brewerName := name
	if alias, ok := schemeAliases[strings.ToLower(name)]; ok {
		brewerName = alias
	}
	p, err := brewer.GetPalette(brewer.TypeAny, brewerName, brewerLevels)
	if err != nil {
		return nil, &UnknownColorSchemeError{Name: name, Err: err}
	}
	return discrete(p.Colors()), nil
}

// discrete picks the nearest step of a fixed palette.
type discrete []color.Color

func (d discrete) At(t float64) color.Color {
	return d[int(math.Round(clamp(t)*float64(len(d)-1)))]
}

type continuous struct {
	cm palette.ColorMap
}

func (c continuous) At(t float64) color.Color {
	col, err := c.cm.At(clamp(t))
	if err != nil {
		return color.Black
	}
	return col
}

func clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Hex formats c as #RRGGBB.
func Hex(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
}
