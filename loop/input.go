package loop

// DefaultZoomStep is the zoom factor applied per wheel notch.
const DefaultZoomStep = 1.2

// WheelZoom turns a wheel event at pixel (px, py) into a Zoom.
// Negative deltaY (wheel up, away from the user) zooms in by step, anything else zooms out.
func WheelZoom(px, py, deltaY, step float64) Zoom {
	if step <= 0 {
		step = DefaultZoomStep
	}
	factor := step
	if deltaY >= 0 {
		factor = 1 / step
	}
	return Zoom{PX: px, PY: py, Factor: factor}
}

// Pointer turns press/move/release sequences into Pan commands.
// The zero value is ready to use.
type Pointer struct {
	dragging     bool
	lastX, lastY float64
}

// Down starts a drag at (x, y).
func (p *Pointer) Down(x, y float64) {
	p.dragging = true
	p.lastX, p.lastY = x, y
}

// Move reports the Pan for a move to (x, y). ok is false when no drag is active or the
// pointer did not move.
func (p *Pointer) Move(x, y float64) (pan Pan, ok bool) {
	if !p.dragging {
		return Pan{}, false
	}
	pan = Pan{DX: x - p.lastX, DY: y - p.lastY}
	p.lastX, p.lastY = x, y
	if pan.DX == 0 && pan.DY == 0 {
		return Pan{}, false
	}
	return pan, true
}

// Up ends the drag. Leaving the surface counts as a release.
func (p *Pointer) Up() {
	p.dragging = false
}

// Dragging reports whether a drag is in progress.
func (p *Pointer) Dragging() bool {
	return p.dragging
}
