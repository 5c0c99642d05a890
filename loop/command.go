package loop

import (
	"fmt"

	"github.com/marben/mandelview/render"
)

// Target is what commands act on. *render.Renderer implements it.
type Target interface {
	Render(buf []byte) error
	Zoom(px, py, factor float64) error
	Pan(dx, dy float64) error
	Reset()
	SetMaxIterations(n int) error
	MaxIterations() int
	SetPalette(p render.Palette)
	Palette() render.Palette
}

var _ Target = (*render.Renderer)(nil)

// Command is a discrete input event. Apply reports whether the view or the picture changed.
type Command interface {
	Apply(t Target) (changed bool, err error)
	String() string
}

// Zoom zooms by Factor anchored at pixel (PX, PY).
type Zoom struct {
	PX, PY float64
	Factor float64
}

func (z Zoom) Apply(t Target) (bool, error) {
	if z.Factor == 1 {
		return false, nil
	}
	if err := t.Zoom(z.PX, z.PY, z.Factor); err != nil {
		return false, err
	}
	return true, nil
}

func (z Zoom) String() string { return fmt.Sprintf("zoom(%g, %g, %g)", z.PX, z.PY, z.Factor) }

// Pan drags the view by (DX, DY) pixels.
type Pan struct {
	DX, DY float64
}

func (p Pan) Apply(t Target) (bool, error) {
	if p.DX == 0 && p.DY == 0 {
		return false, nil
	}
	if err := t.Pan(p.DX, p.DY); err != nil {
		return false, err
	}
	return true, nil
}

func (p Pan) String() string { return fmt.Sprintf("pan(%g, %g)", p.DX, p.DY) }

// Reset returns to the home view.
type Reset struct{}

func (Reset) Apply(t Target) (bool, error) {
	t.Reset()
	return true, nil
}

func (Reset) String() string { return "reset" }

// SetIterations changes the base iteration cap.
type SetIterations struct {
	N int
}

func (s SetIterations) Apply(t Target) (bool, error) {
	if t.MaxIterations() == s.N {
		return false, nil
	}
	if err := t.SetMaxIterations(s.N); err != nil {
		return false, err
	}
	return true, nil
}

func (s SetIterations) String() string { return fmt.Sprintf("iterations(%d)", s.N) }

// ScaleIterations multiplies the base iteration cap by Factor, keeping it at least 1.
type ScaleIterations struct {
	Factor float64
}

func (s ScaleIterations) Apply(t Target) (bool, error) {
	n := max(1, int(float64(t.MaxIterations())*s.Factor))
	return SetIterations{N: n}.Apply(t)
}

func (s ScaleIterations) String() string { return fmt.Sprintf("iterations(x%g)", s.Factor) }

// SetPalette swaps the color mapper.
type SetPalette struct {
	Palette render.Palette
}

func (s SetPalette) Apply(t Target) (bool, error) {
	if s.Palette == nil {
		return false, fmt.Errorf("set palette: nil palette")
	}
	t.SetPalette(s.Palette)
	return true, nil
}

func (s SetPalette) String() string {
	if s.Palette == nil {
		return "palette(nil)"
	}
	return fmt.Sprintf("palette(%s)", s.Palette.Name())
}

// CyclePalette switches to the next built-in palette.
type CyclePalette struct{}

func (CyclePalette) Apply(t Target) (bool, error) {
	return SetPalette{Palette: render.NextPalette(t.Palette())}.Apply(t)
}

func (CyclePalette) String() string { return "palette(next)" }
