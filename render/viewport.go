package render

import (
	"fmt"
	"math"

	mandel "github.com/marben/mandelview"
)

// Scale limits in complex units per pixel.
// Below MinScale neighbouring pixels are only a few float64 ulps apart around |c|≈1 and the
// image degrades into bands. That is accepted, so zooms are clamped rather than rejected.
const (
	MinScale = 1e-15
	MaxScale = 4.0
)

// View is the mutable part of a viewport: the complex point at the center of the pixel grid
// and the size of one pixel in complex units.
type View struct {
	CenterRe float64
	CenterIm float64
	Scale    float64
}

// DefaultView frames the whole set: real axis -2..1 across the width, centered at -0.5.
func DefaultView(width, height int) View {
	return View{
		CenterRe: -0.5,
		CenterIm: 0,
		Scale:    clampScale(3.0 / float64(width)),
	}
}

// ViewForRegion returns the view that fits r into a width x height grid.
// The larger of the two axis ratios wins so the whole region stays visible.
func ViewForRegion(r mandel.Region, width, height int) View {
	re, im := r.Center()
	scale := math.Max(r.Width()/float64(width), r.Height()/float64(height))
	return View{CenterRe: re, CenterIm: im, Scale: clampScale(scale)}
}

// Validate reports whether v can be installed into a viewport.
func (v View) Validate() error {
	if !finite(v.CenterRe) || !finite(v.CenterIm) {
		return fmt.Errorf("view center (%v, %v): %w", v.CenterRe, v.CenterIm, ErrNonFinite)
	}
	if !finite(v.Scale) || v.Scale <= 0 {
		return fmt.Errorf("view scale %v: %w", v.Scale, ErrNonFinite)
	}
	return nil
}

// Viewport maps between pixel space and the complex plane.
//
// Pixel y grows downward and so does the imaginary part: the pixel row below the center has
// a larger im. Every component in this package uses that single orientation.
type Viewport struct {
	centerRe, centerIm float64
	scale              float64
	width, height      int
}

// NewViewport returns a viewport of the given pixel size showing v.
func NewViewport(width, height int, v View) (*Viewport, error) {
	if err := checkSize(width, height); err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	vp := &Viewport{width: width, height: height}
	if err := vp.SetView(v); err != nil {
		return nil, err
	}
	return vp, nil
}

func (vp *Viewport) Width() int  { return vp.width }
func (vp *Viewport) Height() int { return vp.height }

// View returns a snapshot of the current center and scale.
func (vp *Viewport) View() View {
	return View{CenterRe: vp.centerRe, CenterIm: vp.centerIm, Scale: vp.scale}
}

// SetView replaces center and scale. The scale is clamped to [MinScale, MaxScale].
func (vp *Viewport) SetView(v View) error {
	if err := v.Validate(); err != nil {
		return err
	}
	vp.centerRe, vp.centerIm = v.CenterRe, v.CenterIm
	vp.scale = clampScale(v.Scale)
	return nil
}

// PixelToComplex maps a (possibly fractional or off-grid) pixel position to the plane.
func (vp *Viewport) PixelToComplex(px, py float64) (re, im float64) {
	re = vp.centerRe + (px-float64(vp.width)/2)*vp.scale
	im = vp.centerIm + (py-float64(vp.height)/2)*vp.scale
	return re, im
}

// ComplexToPixel is the inverse of PixelToComplex.
func (vp *Viewport) ComplexToPixel(re, im float64) (px, py float64) {
	px = (re-vp.centerRe)/vp.scale + float64(vp.width)/2
	py = (im-vp.centerIm)/vp.scale + float64(vp.height)/2
	return px, py
}

// Zoom scales the view by factor keeping the complex point under (px, py) fixed on screen.
// factor > 1 zooms in. The anchor may lie outside the grid.
func (vp *Viewport) Zoom(px, py, factor float64) error {
	if !finite(factor) || factor <= 0 {
		return fmt.Errorf("zoom by %v: %w", factor, ErrInvalidZoomFactor)
	}
	if !finite(px) || !finite(py) {
		return fmt.Errorf("zoom anchor (%v, %v): %w", px, py, ErrNonFinite)
	}
	if factor == 1 {
		return nil
	}

	anchorRe, anchorIm := vp.PixelToComplex(px, py)
	scale := clampScale(vp.scale / factor)

	// put the anchor back under (px, py) at the new scale
	re := anchorRe - (px-float64(vp.width)/2)*scale
	im := anchorIm - (py-float64(vp.height)/2)*scale
	if !finite(re) || !finite(im) {
		return fmt.Errorf("zoom at (%v, %v): %w", px, py, ErrNonFinite)
	}
	vp.centerRe, vp.centerIm, vp.scale = re, im, scale
	return nil
}

// Pan moves the view by a pixel-space drag of (dx, dy): the content follows the pointer.
func (vp *Viewport) Pan(dx, dy float64) error {
	if !finite(dx) || !finite(dy) {
		return fmt.Errorf("pan by (%v, %v): %w", dx, dy, ErrNonFinite)
	}
	re := vp.centerRe - dx*vp.scale
	im := vp.centerIm - dy*vp.scale
	if !finite(re) || !finite(im) {
		return fmt.Errorf("pan by (%v, %v): %w", dx, dy, ErrNonFinite)
	}
	vp.centerRe, vp.centerIm = re, im
	return nil
}

// checkSize rejects non-positive sizes and grids whose RGBA buffer length overflows int.
func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > math.MaxInt/4/height {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	return nil
}

func clampScale(s float64) float64 {
	return math.Min(math.Max(s, MinScale), MaxScale)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
