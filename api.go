package mandel

// Renderer is the in-process contract consumed by render loops.
// Render fills buf (width*height*4 bytes, RGBA, row-major) from the current view.
// Zoom and Pan only mutate the view.
type Renderer interface {
	Render(buf []byte) error
	Zoom(px, py, factor float64) error
	Pan(dx, dy float64) error
	Width() int
	Height() int
}
