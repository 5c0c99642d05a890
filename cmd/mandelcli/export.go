package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/marben/mandelview/internal/config"
	"github.com/marben/mandelview/render"
	"github.com/marben/mandelview/script"
)

const maxSupersample = 8

// exporter renders at factor times the output size and scales down to it.
type exporter struct {
	r             *render.Renderer
	width, height int
	factor        int
}

func newExporter(cfg config.Config, factor int) (*exporter, error) {
	// the start view is chosen for the output size, then refined per pixel
	v, err := cfg.StartView(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	v.Scale /= float64(factor)
	opts, err := cfg.RenderOptions(cfg.Width*factor, cfg.Height*factor)
	if err != nil {
		return nil, err
	}
	// later options win, so Reset returns to the refined view
	r, err := render.New(cfg.Width*factor, cfg.Height*factor, append(opts, render.WithView(v))...)
	if err != nil {
		return nil, err
	}
	return &exporter{r: r, width: cfg.Width, height: cfg.Height, factor: factor}, nil
}

// image returns the current view at output size.
func (e *exporter) image() (*image.RGBA, error) {
	img, err := e.r.RenderImage()
	if err != nil {
		return nil, err
	}
	return e.downscale(img), nil
}

func (e *exporter) downscale(img *image.RGBA) *image.RGBA {
	if e.factor == 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func (e *exporter) writeFrame(path string) error {
	img, err := e.image()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return savePNG(path, img)
}

// tourFrame saves each tour frame next to out, numbered from zero.
func (e *exporter) tourFrame(out string) script.FrameFunc {
	return func(index int, img *image.RGBA) error {
		name := frameName(out, index)
		if err := savePNG(name, e.downscale(img)); err != nil {
			return err
		}
		log.Printf("frame %d saved to %q", index, name)
		return nil
	}
}

// frameName turns out/dir/zoom.png into out/dir/zoom-0007.png.
func frameName(out string, index int) string {
	ext := filepath.Ext(out)
	if ext == "" {
		ext = ".png"
	}
	stem := strings.TrimSuffix(out, filepath.Ext(out))
	return fmt.Sprintf("%s-%04d%s", stem, index, ext)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}
