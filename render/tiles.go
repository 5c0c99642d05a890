package render

import (
	"image"
	"sync"
)

// TileSize is the edge length of the square tiles a frame is split into.
const TileSize = 64

// tileScheduler hands out the tiles of one frame to a pool of workers.
// Every tile is popped exactly once.
type tileScheduler struct {
	m         sync.Mutex
	unstarted []image.Rectangle
	next      int
}

func newTileScheduler(bounds image.Rectangle, tileW, tileH int) *tileScheduler {
	return &tileScheduler{unstarted: splitRectNoClip(bounds, tileW, tileH)}
}

func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if ts.next >= len(ts.unstarted) {
		return image.Rectangle{}, false
	}
	tile = ts.unstarted[ts.next]
	ts.next++
	return tile, true
}

func (ts *tileScheduler) total() int {
	return len(ts.unstarted)
}

// run starts workers goroutines that call fn for every tile and waits for all of them.
func (ts *tileScheduler) run(workers int, fn func(tile image.Rectangle)) {
	workers = max(1, min(workers, ts.total()))
	if workers == 1 {
		for {
			tile, found := ts.popTile()
			if !found {
				return
			}
			fn(tile)
		}
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tile, found := ts.popTile()
				if !found {
					return
				}
				fn(tile)
			}
		}()
	}
	wg.Wait()
}

// splitRectNoClip splits r into tiles of size tileW × tileH in row-major order.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
