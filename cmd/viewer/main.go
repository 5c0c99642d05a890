// Command viewer is the desktop front-end: a window showing the set, zoomed with the
// mouse wheel and panned by dragging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/marben/mandelview/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.toml, .yaml), reloaded on change")
	region := flag.String("region", "", "start at a named landmark")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if *region != "" {
		cfg.Region = *region
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	g, err := newGame(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, config.DefaultDebounce, g.reload)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("config watch stopped: %v", err)
			}
		}()
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("mandelview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebiten.RunGame: %w", err)
	}
	return nil
}
