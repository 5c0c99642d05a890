// Package config holds the settings shared by the mandelview front-ends.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	mandel "github.com/marben/mandelview"
	"github.com/marben/mandelview/render"
)

// Config is the on-disk configuration. Zero fields in a file keep their defaults.
type Config struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	MaxIterations int    `toml:"maxIterations" yaml:"maxIterations"`
	Adaptive      bool   `toml:"adaptive" yaml:"adaptive"`
	Palette       string `toml:"palette" yaml:"palette"`
	Workers       int    `toml:"workers" yaml:"workers"`

	// Region names a landmark (see mandel.LandmarkNames). It wins over View.
	Region string `toml:"region" yaml:"region"`
	View   *View  `toml:"view" yaml:"view"`

	ZoomStep float64 `toml:"zoomStep" yaml:"zoomStep"`

	Server Server `toml:"server" yaml:"server"`
}

// View is an explicit starting view.
type View struct {
	CenterRe float64 `toml:"centerRe" yaml:"centerRe"`
	CenterIm float64 `toml:"centerIm" yaml:"centerIm"`
	Scale    float64 `toml:"scale" yaml:"scale"`
}

// Server configures cmd/server.
type Server struct {
	Addr      string `toml:"addr" yaml:"addr"`
	StaticDir string `toml:"staticDir" yaml:"staticDir"`
	// FPS caps frames per second per websocket session.
	FPS int `toml:"fps" yaml:"fps"`
	// MaxPixels bounds the canvas a browser may ask for.
	MaxPixels int `toml:"maxPixels" yaml:"maxPixels"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:         800,
		Height:        600,
		MaxIterations: render.DefaultMaxIterations,
		Palette:       "hsl",
		ZoomStep:      1.2,
		Server: Server{
			Addr:      ":8080",
			StaticDir: "./static",
			FPS:       60,
			MaxPixels: 3840 * 2160,
		},
	}
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads path on top of Default. An empty path or a missing file yields the defaults.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := Decode(path, bytes.NewReader(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode reads the file format implied by name from r into cfg.
func Decode(name string, r io.Reader, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		err = toml.NewDecoder(r).Decode(cfg)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("config %s: unsupported format %q", name, ext)
	}
	if err != nil {
		return &ParseError{Path: name, Err: err}
	}
	return nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("maxIterations %d must be positive", c.MaxIterations))
	}
	if _, err := render.PaletteByName(c.Palette); err != nil {
		errs = append(errs, err)
	}
	if c.Region != "" {
		if _, err := mandel.Landmark(c.Region); err != nil {
			errs = append(errs, err)
		}
	}
	if c.View != nil {
		if err := c.renderView().Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ZoomStep <= 1 {
		errs = append(errs, fmt.Errorf("zoomStep %v must be greater than 1", c.ZoomStep))
	}
	if c.Server.FPS < 1 {
		errs = append(errs, fmt.Errorf("server.fps %d must be positive", c.Server.FPS))
	}
	return errors.Join(errs...)
}

func (c Config) renderView() render.View {
	return render.View{CenterRe: c.View.CenterRe, CenterIm: c.View.CenterIm, Scale: c.View.Scale}
}

// StartView is the view a renderer of the given size should start at.
func (c Config) StartView(width, height int) (render.View, error) {
	if c.Region != "" {
		r, err := mandel.Landmark(c.Region)
		if err != nil {
			return render.View{}, err
		}
		return render.ViewForRegion(r, width, height), nil
	}
	if c.View != nil {
		v := c.renderView()
		return v, v.Validate()
	}
	return render.DefaultView(width, height), nil
}

// RenderOptions translates the config for a renderer of the given size.
func (c Config) RenderOptions(width, height int) ([]render.Option, error) {
	p, err := render.PaletteByName(c.Palette)
	if err != nil {
		return nil, err
	}
	v, err := c.StartView(width, height)
	if err != nil {
		return nil, err
	}
	return []render.Option{
		render.WithView(v),
		render.WithMaxIterations(c.MaxIterations),
		render.WithAdaptiveIterations(c.Adaptive),
		render.WithPalette(p),
		render.WithWorkers(c.Workers),
	}, nil
}

// NewRenderer builds a renderer of the given size from c.
func (c Config) NewRenderer(width, height int) (*render.Renderer, error) {
	opts, err := c.RenderOptions(width, height)
	if err != nil {
		return nil, err
	}
	return render.New(width, height, opts...)
}
