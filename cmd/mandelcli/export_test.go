package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marben/mandelview/internal/config"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		out   string
		index int
		want  string
	}{
		{"mandel.png", 0, "mandel-0000.png"},
		{"out/zoom.png", 12, "out/zoom-0012.png"},
		{"frames", 3, "frames-0003.png"},
		{"a.b/c.PNG", 9999, "a.b/c-9999.PNG"},
	}
	for _, tc := range tests {
		if got := frameName(tc.out, tc.index); got != tc.want {
			t.Errorf("frameName(%q, %d) = %q, want %q", tc.out, tc.index, got, tc.want)
		}
	}
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 24, 16
	cfg.MaxIterations = 32
	return cfg
}

func TestExporterSupersampleKeepsFraming(t *testing.T) {
	cfg := smallConfig()
	plain, err := newExporter(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := newExporter(cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ss.r.Width() != 72 || ss.r.Height() != 48 {
		t.Fatalf("supersampled grid %dx%d", ss.r.Width(), ss.r.Height())
	}

	// the corners of both grids land on the same complex points
	pre, pim := plain.r.PixelToComplex(0, 0)
	sre, sim := ss.r.PixelToComplex(0, 0)
	if diff := pre - sre; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("left edge %v vs %v", pre, sre)
	}
	if diff := pim - sim; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("top edge %v vs %v", pim, sim)
	}

	img, err := ss.image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("output is %v, want 24x16", img.Bounds())
	}
}

func TestWriteFrame(t *testing.T) {
	exp, err := newExporter(smallConfig(), 2)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := exp.writeFrame(path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("decoded %v", img.Bounds())
	}
}

func TestTourFrames(t *testing.T) {
	exp, err := newExporter(smallConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "tour.png")
	emit := exp.tourFrame(out)
	for i := range 3 {
		img, err := exp.r.RenderImage()
		if err != nil {
			t.Fatal(err)
		}
		if err := emit(i, img); err != nil {
			t.Fatal(err)
		}
	}
	for i := range 3 {
		if _, err := os.Stat(frameName(out, i)); err != nil {
			t.Errorf("frame %d: %v", i, err)
		}
	}
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-o", "x.png", "-width", "64", "-supersample", "2", "-palette", "sine", "-iter", "99"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := o.configure()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 600 || cfg.Palette != "sine" || cfg.MaxIterations != 99 {
		t.Errorf("config = %+v", cfg)
	}
	if o.supersample != 2 || o.out != "x.png" {
		t.Errorf("options = %+v", o)
	}

	if _, err := parseFlags([]string{"-supersample", "0"}); err == nil {
		t.Error("supersample 0 accepted")
	}

	o, _ = parseFlags([]string{"-palette", "plaid"})
	if _, err := o.configure(); err == nil || !strings.Contains(err.Error(), "plaid") {
		t.Errorf("unknown palette error = %v", err)
	}
}

func TestExporterResetReturnsToRefinedView(t *testing.T) {
	cfg := smallConfig()
	cfg.View = &config.View{CenterRe: -0.75, CenterIm: 0.1, Scale: 0.01}
	exp, err := newExporter(cfg, 4)
	if err != nil {
		t.Fatal(err)
	}
	start := exp.r.View()
	if start.Scale != 0.01/4 {
		t.Fatalf("start scale = %v, want %v", start.Scale, 0.01/4)
	}

	if err := exp.r.Zoom(3, 3, 2); err != nil {
		t.Fatal(err)
	}
	exp.r.Reset()
	if got := exp.r.View(); got != start {
		t.Errorf("view after Reset = %+v, want %+v", got, start)
	}
}
