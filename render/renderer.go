// Package render is the Mandelbrot computation core: the viewport transform, the escape-time
// engine, palettes and the tile-parallel pixel writer, behind the Renderer facade.
//
// A Renderer has no internal lock. Callers serialize Zoom, Pan and Render (see package loop).
package render

import (
	"fmt"
	"image"
	"runtime"

	mandel "github.com/marben/mandelview"
)

// Renderer draws the Mandelbrot set into caller supplied RGBA buffers.
type Renderer struct {
	vp       *Viewport
	home     View
	maxIter  int
	adaptive bool
	palette  Palette
	workers  int
}

var _ mandel.Renderer = (*Renderer)(nil)

type settings struct {
	view     *View
	maxIter  int
	adaptive bool
	palette  Palette
	workers  int
}

// Option configures a Renderer at construction.
type Option func(*settings)

// WithView sets the initial (and Reset) view instead of DefaultView.
func WithView(v View) Option {
	return func(s *settings) { s.view = &v }
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(s *settings) { s.maxIter = n }
}

// WithPalette sets the color mapper.
func WithPalette(p Palette) Option {
	return func(s *settings) { s.palette = p }
}

// WithWorkers sets how many goroutines fill tiles during Render. n < 1 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithAdaptiveIterations raises the cap as the view zooms in, see IterationsForScale.
func WithAdaptiveIterations(on bool) Option {
	return func(s *settings) { s.adaptive = on }
}

// New returns a renderer for a fixed width x height pixel grid.
func New(width, height int, opts ...Option) (*Renderer, error) {
	if err := checkSize(width, height); err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	s := settings{
		maxIter: DefaultMaxIterations,
		palette: DefaultHSL,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.maxIter < 1 {
		return nil, fmt.Errorf("new renderer: %d: %w", s.maxIter, ErrInvalidIterations)
	}
	if s.palette == nil {
		s.palette = DefaultHSL
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	home := DefaultView(width, height)
	if s.view != nil {
		home = *s.view
	}
	vp, err := NewViewport(width, height, home)
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	return &Renderer{
		vp:       vp,
		home:     vp.View(),
		maxIter:  s.maxIter,
		adaptive: s.adaptive,
		palette:  s.palette,
		workers:  s.workers,
	}, nil
}

// Render recomputes every pixel into buf. buf must hold exactly Width()*Height()*4 bytes;
// otherwise nothing is written and the returned error wraps ErrBufferSize.
// Render does not touch the view and does not keep buf.
func (r *Renderer) Render(buf []byte) error {
	f := frame{
		vp:      *r.vp,
		maxIter: r.Iterations(),
		palette: r.palette,
	}
	if err := writeFrame(buf, f, r.workers); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// RenderImage renders into a freshly allocated image.
func (r *Renderer) RenderImage() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.vp.width, r.vp.height))
	if err := r.Render(img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}

// Zoom zooms by factor anchored at pixel (px, py). factor > 1 zooms in.
func (r *Renderer) Zoom(px, py, factor float64) error {
	return r.vp.Zoom(px, py, factor)
}

// Pan moves the view by a pixel drag of (dx, dy).
func (r *Renderer) Pan(dx, dy float64) error {
	return r.vp.Pan(dx, dy)
}

func (r *Renderer) Width() int  { return r.vp.width }
func (r *Renderer) Height() int { return r.vp.height }

// BufferLen is the byte length Render expects.
func (r *Renderer) BufferLen() int { return BufferLen(r.vp.width, r.vp.height) }

// View returns the current view.
func (r *Renderer) View() View { return r.vp.View() }

// SetView jumps to v.
func (r *Renderer) SetView(v View) error { return r.vp.SetView(v) }

// Reset returns to the view the renderer was constructed with.
func (r *Renderer) Reset() {
	// home was validated at construction
	_ = r.vp.SetView(r.home)
}

// PixelToComplex exposes the current transform.
func (r *Renderer) PixelToComplex(px, py float64) (re, im float64) {
	return r.vp.PixelToComplex(px, py)
}

// MaxIterations returns the configured base cap.
func (r *Renderer) MaxIterations() int { return r.maxIter }

// SetMaxIterations changes the base cap.
func (r *Renderer) SetMaxIterations(n int) error {
	if n < 1 {
		return fmt.Errorf("set max iterations %d: %w", n, ErrInvalidIterations)
	}
	r.maxIter = n
	return nil
}

// Iterations is the cap the next Render will use, including adaptive growth.
func (r *Renderer) Iterations() int {
	if !r.adaptive {
		return r.maxIter
	}
	return IterationsForScale(r.maxIter, r.vp.scale, DefaultView(r.vp.width, r.vp.height).Scale)
}

// Palette returns the current color mapper.
func (r *Renderer) Palette() Palette { return r.palette }

// SetPalette replaces the color mapper. A nil palette is ignored.
func (r *Renderer) SetPalette(p Palette) {
	if p != nil {
		r.palette = p
	}
}
