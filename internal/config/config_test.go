package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mandel "github.com/marben/mandelview"
	"github.com/marben/mandelview/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "mandel.toml", `
width = 320
height = 200
maxIterations = 1000
adaptive = true
palette = "gradient"

[view]
centerRe = -0.745
centerIm = 0.113
scale = 1e-5

[server]
addr = ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("size = %dx%d, want 320x200", cfg.Width, cfg.Height)
	}
	if cfg.MaxIterations != 1000 || !cfg.Adaptive || cfg.Palette != "gradient" {
		t.Errorf("render settings = %d %v %q", cfg.MaxIterations, cfg.Adaptive, cfg.Palette)
	}
	if cfg.View == nil || cfg.View.CenterRe != -0.745 || cfg.View.Scale != 1e-5 {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server.addr = %q, want :9000", cfg.Server.Addr)
	}
	// untouched fields keep defaults
	if cfg.Server.FPS != 60 || cfg.ZoomStep != 1.2 {
		t.Errorf("defaults lost: fps=%d zoomStep=%v", cfg.Server.FPS, cfg.ZoomStep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "mandel.yaml", `
width: 640
palette: sine
region: seahorse
server:
  fps: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 600 {
		t.Errorf("size = %dx%d, want 640x600", cfg.Width, cfg.Height)
	}
	if cfg.Palette != "sine" || cfg.Region != "seahorse" || cfg.Server.FPS != 30 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != Default().Width {
		t.Errorf("width = %d, want default", cfg.Width)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != Default().Width || cfg.Palette != Default().Palette {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") error = %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, "bad.toml", "width = = 3")
	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load(writeFile(t, "mandel.ini", "width=3")); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.MaxIterations = 0
	cfg.Palette = "plaid"
	cfg.Region = "atlantis"
	cfg.ZoomStep = 1
	cfg.View = &View{Scale: -1}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	if !errors.Is(err, render.ErrUnknownPalette) {
		t.Errorf("error does not wrap ErrUnknownPalette: %v", err)
	}
	for _, want := range []string{"size", "maxIterations", "atlantis", "zoomStep", "scale"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MANDEL_WIDTH":          "1024",
		"MANDEL_MAX_ITERATIONS": "2000",
		"MANDEL_PALETTE":        "gradient",
		"MANDEL_ADAPTIVE":       "true",
		"MANDEL_ZOOM_STEP":      "1.5",
		"MANDEL_ADDR":           "127.0.0.1:1234",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 600 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxIterations != 2000 || cfg.Palette != "gradient" || !cfg.Adaptive || cfg.ZoomStep != 1.5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:1234" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	for _, kv := range [][2]string{{"MANDEL_HEIGHT", "tall"}, {"MANDEL_ADAPTIVE", "maybe"}, {"MANDEL_ZOOM_STEP", "x"}} {
		cfg := Default()
		err := cfg.applyEnv(func(k string) (string, bool) {
			if k == kv[0] {
				return kv[1], true
			}
			return "", false
		})
		if err == nil {
			t.Errorf("%s=%s accepted", kv[0], kv[1])
		}
	}
}

func TestStartView(t *testing.T) {
	cfg := Default()
	v, err := cfg.StartView(800, 600)
	if err != nil || v != render.DefaultView(800, 600) {
		t.Errorf("default StartView = %+v, %v", v, err)
	}

	cfg.View = &View{CenterRe: 0.1, CenterIm: 0.2, Scale: 0.001}
	v, err = cfg.StartView(800, 600)
	if err != nil || v != (render.View{CenterRe: 0.1, CenterIm: 0.2, Scale: 0.001}) {
		t.Errorf("explicit StartView = %+v, %v", v, err)
	}

	cfg.Region = "dragon"
	v, err = cfg.StartView(800, 600)
	if err != nil || v != render.ViewForRegion(mandel.ValleyOfTheDragon, 800, 600) {
		t.Errorf("region StartView = %+v, %v", v, err)
	}
}

func TestNewRenderer(t *testing.T) {
	cfg := Default()
	cfg.Palette = "sine"
	cfg.MaxIterations = 77
	r, err := cfg.NewRenderer(40, 30)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if r.Width() != 40 || r.Height() != 30 || r.MaxIterations() != 77 || r.Palette().Name() != "sine" {
		t.Errorf("renderer = %dx%d iter=%d palette=%s", r.Width(), r.Height(), r.MaxIterations(), r.Palette().Name())
	}

	cfg.Palette = "plaid"
	if _, err := cfg.NewRenderer(40, 30); err == nil {
		t.Error("unknown palette accepted")
	}
}
