package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// InSetColor is used for points that never escaped.
var InSetColor = color.RGBA{A: 255}

// Palette maps an iteration result to an opaque color.
// Implementations must be deterministic, defined for every Smooth value (including negative
// ones) and continuous in Smooth.
type Palette interface {
	Name() string
	Color(res IterationResult) color.RGBA
}

// HSLPalette cycles the hue with the smooth escape value.
type HSLPalette struct {
	// HueStep is degrees of hue per iteration.
	HueStep    float64
	Saturation float64
	Lightness  float64
}

// DefaultHSL is the default palette.
var DefaultHSL = HSLPalette{HueStep: 10, Saturation: 0.8, Lightness: 0.5}

func (p HSLPalette) Name() string { return "hsl" }

func (p HSLPalette) Color(res IterationResult) color.RGBA {
	if !res.Escaped {
		return InSetColor
	}
	hue := wrap(res.Smooth*p.HueStep, 360)
	return rgba(colorful.Hsl(hue, p.Saturation, p.Lightness))
}

// GradientPalette interpolates between key colors in HCL space, repeating every Period
// iterations. The key list is treated as a closed loop.
type GradientPalette struct {
	Keys   []colorful.Color
	Period float64
}

// NewGradientPalette parses hex key colors. The first key is appended again so the cycle
// wraps back to its start without a seam.
func NewGradientPalette(period float64, hexKeys ...string) (*GradientPalette, error) {
	if period <= 0 || !finite(period) {
		return nil, fmt.Errorf("gradient period %v must be positive", period)
	}
	if len(hexKeys) == 0 {
		return nil, fmt.Errorf("gradient needs at least one key color")
	}
	keys := make([]colorful.Color, 0, len(hexKeys)+1)
	for _, h := range hexKeys {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("gradient key %q: %w", h, err)
		}
		keys = append(keys, c)
	}
	keys = append(keys, keys[0])
	return &GradientPalette{Keys: keys, Period: period}, nil
}

// spectral is the key set used by the "gradient" palette.
var spectral = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee090", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

func (p *GradientPalette) Name() string { return "gradient" }

func (p *GradientPalette) Color(res IterationResult) color.RGBA {
	if !res.Escaped {
		return InSetColor
	}
	if len(p.Keys) == 1 {
		return rgba(p.Keys[0])
	}
	t := wrap(res.Smooth, p.Period) / p.Period
	pos := t * float64(len(p.Keys)-1)
	i := int(pos)
	if i >= len(p.Keys)-1 {
		i = len(p.Keys) - 2
	}
	return rgba(p.Keys[i].BlendHcl(p.Keys[i+1], pos-float64(i)).Clamped())
}

// SinePalette drives each channel with a phase-shifted sine of the smooth value.
type SinePalette struct {
	Frequency float64
}

func (p SinePalette) Name() string { return "sine" }

func (p SinePalette) Color(res IterationResult) color.RGBA {
	if !res.Escaped {
		return InSetColor
	}
	v := res.Smooth * p.Frequency
	if !finite(v) {
		v = 0
	}
	return color.RGBA{
		R: uint8(math.Sin(v)*127 + 128),
		G: uint8(math.Sin(v+2)*127 + 128),
		B: uint8(math.Sin(v+4)*127 + 128),
		A: 255,
	}
}

var palettes = map[string]func() Palette{
	"hsl": func() Palette { return DefaultHSL },
	"gradient": func() Palette {
		p, err := NewGradientPalette(64, spectral...)
		if err != nil {
			panic(err)
		}
		return p
	},
	"sine": func() Palette { return SinePalette{Frequency: 0.1} },
}

// PaletteByName returns one of the built-in palettes.
func PaletteByName(name string) (Palette, error) {
	mk, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownPalette, name, strings.Join(PaletteNames(), ", "))
	}
	return mk(), nil
}

// PaletteNames lists the built-in palette names, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NextPalette returns the built-in palette following p in name order, wrapping around.
func NextPalette(p Palette) Palette {
	names := PaletteNames()
	i := sort.SearchStrings(names, p.Name())
	if i < len(names) && names[i] == p.Name() {
		i++
	}
	next, _ := PaletteByName(names[i%len(names)])
	return next
}

// wrap returns x mod m in [0, m). Non-finite x maps to 0.
func wrap(x, m float64) float64 {
	if !finite(x) {
		return 0
	}
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
