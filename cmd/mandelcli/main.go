// mandelcli renders the Mandelbrot set to PNG files.
// It writes a single frame, or with -script every frame a Lua tour emits.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/marben/mandelview/internal/config"
	"github.com/marben/mandelview/script"
)

// main is the entry point for the CLI.
// It runs the export logic and logs any fatal errors.
func main() {
	log.Printf("Starting mandelcli...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

type options struct {
	configPath  string
	out         string
	width       int
	height      int
	region      string
	palette     string
	iterations  int
	adaptive    bool
	supersample int
	script      string
	timeout     time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("mandelcli", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file (.toml, .yaml)")
	fs.StringVar(&o.out, "o", "mandel.png", "output file; tours write <stem>-NNNN.png")
	fs.IntVar(&o.width, "width", 0, "image width, overrides the config")
	fs.IntVar(&o.height, "height", 0, "image height, overrides the config")
	fs.StringVar(&o.region, "region", "", "named landmark to frame")
	fs.StringVar(&o.palette, "palette", "", "palette name")
	fs.IntVar(&o.iterations, "iter", 0, "iteration cap")
	fs.BoolVar(&o.adaptive, "adaptive", false, "raise the iteration cap with zoom depth")
	fs.IntVar(&o.supersample, "supersample", 1, "render at N times the size and downscale")
	fs.StringVar(&o.script, "script", "", "Lua tour to run")
	fs.DurationVar(&o.timeout, "timeout", 0, "abort a tour after this long (0 means no limit)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.supersample < 1 || o.supersample > maxSupersample {
		return o, fmt.Errorf("-supersample %d must be between 1 and %d", o.supersample, maxSupersample)
	}
	return o, nil
}

// configure layers the flags over the config file and the environment.
func (o options) configure() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.height > 0 {
		cfg.Height = o.height
	}
	if o.region != "" {
		cfg.Region = o.region
	}
	if o.palette != "" {
		cfg.Palette = o.palette
	}
	if o.iterations > 0 {
		cfg.MaxIterations = o.iterations
	}
	if o.adaptive {
		cfg.Adaptive = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// run renders the requested image or tour and saves the PNG files.
// Returns an error if any step fails.
func run() error {
	// Step 1: Collect settings from flags, the config file and the environment
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := o.configure()
	if err != nil {
		return err
	}

	// Step 2: Create the renderer, oversized when supersampling
	exp, err := newExporter(cfg, o.supersample)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	log.Printf("Rendering %dx%d (x%d supersample) with %s palette...",
		cfg.Width, cfg.Height, o.supersample, cfg.Palette)

	// Step 3a: Without a tour, render a single frame and save it
	if o.script == "" {
		start := time.Now()
		if err := exp.writeFrame(o.out); err != nil {
			return err
		}
		log.Printf("Rendered image saved to %q in %s", o.out, time.Since(start).Round(time.Millisecond))
		return nil
	}

	// Step 3b: Run the tour, saving every frame it emits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	tour := script.New(exp.r, exp.tourFrame(o.out))
	log.Printf("Running tour %q...", o.script)
	if err := tour.RunFile(ctx, o.script); err != nil {
		return err
	}
	log.Printf("Tour finished, %d frames saved next to %q", tour.Frames(), o.out)
	return nil
}
