package render

import (
	"fmt"
	"image"
)

// frame is everything a worker needs to fill pixels. It is a copy, so workers never see
// the viewport change underneath them.
type frame struct {
	vp      Viewport
	maxIter int
	palette Palette
}

// BufferLen returns the byte length of an RGBA buffer for a width x height grid.
func BufferLen(width, height int) int {
	return width * height * 4
}

// writeFrame fills buf with the frame, one tile per worker at a time.
// buf must be exactly BufferLen(vp.width, vp.height) bytes.
func writeFrame(buf []byte, f frame, workers int) error {
	want := BufferLen(f.vp.width, f.vp.height)
	if len(buf) != want {
		return fmt.Errorf("got %d bytes, want %d for %dx%d: %w", len(buf), want, f.vp.width, f.vp.height, ErrBufferSize)
	}

	ts := newTileScheduler(image.Rect(0, 0, f.vp.width, f.vp.height), TileSize, TileSize)
	ts.run(workers, func(tile image.Rectangle) {
		f.writeTile(buf, tile)
	})
	return nil
}

// writeTile renders the pixels inside tile. Tiles never overlap, so concurrent calls write
// disjoint byte ranges of buf.
func (f *frame) writeTile(buf []byte, tile image.Rectangle) {
	stride := f.vp.width * 4
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		off := py*stride + tile.Min.X*4
		for px := tile.Min.X; px < tile.Max.X; px++ {
			re, im := f.vp.PixelToComplex(float64(px), float64(py))
			c := f.palette.Color(Iterate(re, im, f.maxIter))
			buf[off] = c.R
			buf[off+1] = c.G
			buf[off+2] = c.B
			buf[off+3] = 255
			off += 4
		}
	}
}
