package render

import (
	"image"
	"sync"
	"testing"
)

func TestSplitRectNoClipCoversEveryPixelOnce(t *testing.T) {
	tests := []struct {
		name         string
		r            image.Rectangle
		tileW, tileH int
		wantTiles    int
	}{
		{"exact", image.Rect(0, 0, 128, 64), 64, 64, 2},
		{"ragged", image.Rect(0, 0, 100, 70), 64, 64, 4},
		{"smaller than tile", image.Rect(0, 0, 10, 5), 64, 64, 1},
		{"offset", image.Rect(5, 7, 37, 40), 16, 16, 6},
		{"single pixel", image.Rect(0, 0, 1, 1), 64, 64, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tiles := splitRectNoClip(tc.r, tc.tileW, tc.tileH)
			if len(tiles) != tc.wantTiles {
				t.Errorf("len(tiles) = %d, want %d", len(tiles), tc.wantTiles)
			}

			seen := make(map[image.Point]int)
			for _, tile := range tiles {
				if !tile.In(tc.r) {
					t.Errorf("tile %v outside %v", tile, tc.r)
				}
				if tile.Dx() > tc.tileW || tile.Dy() > tc.tileH {
					t.Errorf("tile %v larger than %dx%d", tile, tc.tileW, tc.tileH)
				}
				for y := tile.Min.Y; y < tile.Max.Y; y++ {
					for x := tile.Min.X; x < tile.Max.X; x++ {
						seen[image.Pt(x, y)]++
					}
				}
			}

			if len(seen) != tc.r.Dx()*tc.r.Dy() {
				t.Errorf("covered %d pixels, want %d", len(seen), tc.r.Dx()*tc.r.Dy())
			}
			for p, n := range seen {
				if n != 1 {
					t.Errorf("pixel %v covered %d times", p, n)
				}
			}
		})
	}
}

func TestSplitRectNoClipPanicsOnBadTile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	splitRectNoClip(image.Rect(0, 0, 10, 10), 0, 4)
}

func TestTileSchedulerRunsEveryTileOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 16, 1000} {
		ts := newTileScheduler(image.Rect(0, 0, 300, 200), 32, 32)

		var mu sync.Mutex
		done := make(map[image.Rectangle]int)
		ts.run(workers, func(tile image.Rectangle) {
			mu.Lock()
			done[tile]++
			mu.Unlock()
		})

		if len(done) != ts.total() {
			t.Errorf("workers=%d: ran %d tiles, want %d", workers, len(done), ts.total())
		}
		for tile, n := range done {
			if n != 1 {
				t.Errorf("workers=%d: tile %v ran %d times", workers, tile, n)
			}
		}
		if _, found := ts.popTile(); found {
			t.Errorf("workers=%d: scheduler not drained", workers)
		}
	}
}
