package render

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func allPalettes(t *testing.T) []Palette {
	t.Helper()
	var ps []Palette
	for _, name := range PaletteNames() {
		p, err := PaletteByName(name)
		if err != nil {
			t.Fatalf("PaletteByName(%q) error = %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("PaletteByName(%q).Name() = %q", name, p.Name())
		}
		ps = append(ps, p)
	}
	return ps
}

func TestPaletteInSetIsBlack(t *testing.T) {
	for _, p := range allPalettes(t) {
		got := p.Color(IterationResult{Count: 256, Smooth: 256})
		if got != (color.RGBA{A: 255}) {
			t.Errorf("%s: in-set color = %v, want opaque black", p.Name(), got)
		}
	}
}

func TestPaletteEscapedIsOpaqueAndTotal(t *testing.T) {
	for _, p := range allPalettes(t) {
		for _, s := range []float64{-50, -2.5, 0, 0.001, 1, 10.5, 255.999, 256, 1e6} {
			c := p.Color(IterationResult{Count: int(math.Max(s, 0)), Smooth: s, Escaped: true})
			if c.A != 255 {
				t.Errorf("%s: alpha at %v = %d, want 255", p.Name(), s, c.A)
			}
		}
	}
}

func TestPaletteNonFiniteSmooth(t *testing.T) {
	for _, p := range allPalettes(t) {
		want := p.Color(IterationResult{Count: 1, Smooth: 0, Escaped: true})
		for _, s := range []float64{math.Inf(-1), math.Inf(1), math.NaN()} {
			got := p.Color(IterationResult{Count: 1, Smooth: s, Escaped: true})
			if got != want {
				t.Errorf("%s: color at smooth %v = %v, want %v", p.Name(), s, got, want)
			}
		}
	}
}

func TestWrapNonFinite(t *testing.T) {
	for _, x := range []float64{math.Inf(-1), math.Inf(1), math.NaN()} {
		if got := wrap(x, 360); got != 0 {
			t.Errorf("wrap(%v, 360) = %v, want 0", x, got)
		}
	}
}

func TestPaletteDeterministic(t *testing.T) {
	for _, p := range allPalettes(t) {
		res := IterationResult{Count: 17, Smooth: 17.3, Escaped: true}
		if a, b := p.Color(res), p.Color(res); a != b {
			t.Errorf("%s: %v != %v", p.Name(), a, b)
		}
	}
}

func TestPaletteContinuous(t *testing.T) {
	const step = 0.01
	const maxDelta = 12

	for _, p := range allPalettes(t) {
		prev := p.Color(IterationResult{Smooth: -5, Escaped: true})
		for s := -5 + step; s < 300; s += step {
			cur := p.Color(IterationResult{Smooth: s, Escaped: true})
			if d := channelDelta(prev, cur); d > maxDelta {
				t.Errorf("%s: jump of %d between %v and %v", p.Name(), d, s-step, s)
				break
			}
			prev = cur
		}
	}
}

func TestPaletteDistinguishesNeighbouringCounts(t *testing.T) {
	for _, p := range allPalettes(t) {
		a := p.Color(IterationResult{Count: 10, Smooth: 10, Escaped: true})
		b := p.Color(IterationResult{Count: 11, Smooth: 11, Escaped: true})
		if a == b {
			t.Errorf("%s: counts 10 and 11 share color %v", p.Name(), a)
		}
	}
}

func TestPaletteByNameUnknown(t *testing.T) {
	if _, err := PaletteByName("plaid"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("error = %v, want ErrUnknownPalette", err)
	}
	if p, err := PaletteByName("  HSL "); err != nil || p.Name() != "hsl" {
		t.Errorf("PaletteByName(\"  HSL \") = %v, %v", p, err)
	}
}

func TestNextPaletteCycles(t *testing.T) {
	names := PaletteNames()
	p, _ := PaletteByName(names[0])
	for i := 1; i <= len(names); i++ {
		p = NextPalette(p)
		if want := names[i%len(names)]; p.Name() != want {
			t.Errorf("step %d: %q, want %q", i, p.Name(), want)
		}
	}
}

func TestHSLPrimaryHues(t *testing.T) {
	p := HSLPalette{HueStep: 1, Saturation: 1, Lightness: 0.5}
	tests := []struct {
		hue  float64
		want color.RGBA
	}{
		{0, color.RGBA{255, 0, 0, 255}},
		{120, color.RGBA{0, 255, 0, 255}},
		{240, color.RGBA{0, 0, 255, 255}},
		{360, color.RGBA{255, 0, 0, 255}},
	}
	for _, tc := range tests {
		if got := p.Color(IterationResult{Smooth: tc.hue, Escaped: true}); got != tc.want {
			t.Errorf("hue %v = %v, want %v", tc.hue, got, tc.want)
		}
	}
}

func TestNewGradientPaletteErrors(t *testing.T) {
	if _, err := NewGradientPalette(0, "#000000"); err == nil {
		t.Error("zero period accepted")
	}
	if _, err := NewGradientPalette(10); err == nil {
		t.Error("empty key list accepted")
	}
	if _, err := NewGradientPalette(10, "not-a-color"); err == nil {
		t.Error("bad hex accepted")
	}
}

func TestGradientWrapsWithoutSeam(t *testing.T) {
	p, err := NewGradientPalette(64, "#ff0000", "#00ff00", "#0000ff")
	if err != nil {
		t.Fatal(err)
	}
	start := p.Color(IterationResult{Smooth: 0, Escaped: true})
	end := p.Color(IterationResult{Smooth: 63.999, Escaped: true})
	if d := channelDelta(start, end); d > 3 {
		t.Errorf("wrap jump %d between %v and %v", d, end, start)
	}
}

func channelDelta(a, b color.RGBA) int {
	d := 0
	for _, pair := range [][2]uint8{{a.R, b.R}, {a.G, b.G}, {a.B, b.B}} {
		v := int(pair[0]) - int(pair[1])
		if v < 0 {
			v = -v
		}
		d = max(d, v)
	}
	return d
}
