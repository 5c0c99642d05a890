package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/marben/mandelview/internal/config"
	"github.com/marben/mandelview/loop"
	"github.com/marben/mandelview/render"
)

var keyActions = map[ebiten.Key]loop.Action{
	ebiten.KeyEqual:          loop.ActionZoomIn,
	ebiten.KeyNumpadAdd:      loop.ActionZoomIn,
	ebiten.KeyMinus:          loop.ActionZoomOut,
	ebiten.KeyNumpadSubtract: loop.ActionZoomOut,
	ebiten.KeyArrowLeft:      loop.ActionPanLeft,
	ebiten.KeyArrowRight:     loop.ActionPanRight,
	ebiten.KeyArrowUp:        loop.ActionPanUp,
	ebiten.KeyArrowDown:      loop.ActionPanDown,
	ebiten.KeyBracketRight:   loop.ActionMoreIterations,
	ebiten.KeyBracketLeft:    loop.ActionFewerIterations,
	ebiten.KeyP:              loop.ActionCyclePalette,
	ebiten.KeyR:              loop.ActionReset,
}

// Game implements the ebiten.Game interface.
// Update and Draw run on the same goroutine, so the renderer needs no lock.
type Game struct {
	cfg config.Config

	r    *render.Renderer
	ctrl *loop.Controller
	buf  []byte
	img  *ebiten.Image

	ptr     loop.Pointer
	reloads chan config.Config

	// window size reported by Layout, applied on the next Update
	wantW, wantH int
}

func newGame(cfg config.Config) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		reloads: make(chan config.Config, 1),
	}
	if err := g.resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return g, nil
}

// reload is called from the config watcher goroutine. Only the newest config is kept.
func (g *Game) reload(cfg config.Config) {
	select {
	case <-g.reloads:
	default:
	}
	g.reloads <- cfg
}

// resize rebuilds the renderer for a new window size, keeping the view and picture settings.
func (g *Game) resize(width, height int) error {
	r, err := g.cfg.NewRenderer(width, height)
	if err != nil {
		return err
	}
	if g.r != nil {
		if err := r.SetView(g.r.View()); err != nil {
			return err
		}
		if err := r.SetMaxIterations(g.r.MaxIterations()); err != nil {
			return err
		}
		r.SetPalette(g.r.Palette())
	}
	g.r = r
	g.ctrl = loop.New(r)
	g.buf = make([]byte, r.BufferLen())
	if g.img != nil {
		g.img.Deallocate()
	}
	g.img = ebiten.NewImage(width, height)
	g.wantW, g.wantH = width, height
	return nil
}

// Update handles input and renders when the view changed.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.wantW != g.r.Width() || g.wantH != g.r.Height() {
		if err := g.resize(g.wantW, g.wantH); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
	}

	select {
	case cfg := <-g.reloads:
		g.applyConfig(cfg)
	default:
	}

	x, y := ebiten.CursorPosition()
	px, py := float64(x), float64(y)

	// ebiten reports wheel up as positive
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.ctrl.Submit(loop.WheelZoom(px, py, -dy, g.cfg.ZoomStep))
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.ptr.Down(px, py)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.ptr.Up()
	case g.ptr.Dragging():
		if pan, ok := g.ptr.Move(px, py); ok {
			g.ctrl.Submit(pan)
		}
	}

	for key, action := range keyActions {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if cmd, ok := action.Command(g.r.Width(), g.r.Height(), g.cfg.ZoomStep); ok {
			g.ctrl.Submit(cmd)
		}
	}

	rendered, err := g.ctrl.Frame(g.buf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if rendered {
		g.img.WritePixels(g.buf)
	}
	return nil
}

func (g *Game) applyConfig(cfg config.Config) {
	p, err := render.PaletteByName(cfg.Palette)
	if err != nil {
		log.Printf("config reload: %v", err)
		return
	}
	log.Printf("config reloaded: palette %s, %d iterations", cfg.Palette, cfg.MaxIterations)
	g.cfg.ZoomStep = cfg.ZoomStep
	g.cfg.Palette = cfg.Palette
	g.cfg.MaxIterations = cfg.MaxIterations
	g.ctrl.Submit(loop.SetPalette{Palette: p}, loop.SetIterations{N: cfg.MaxIterations})
}

// Draw renders the current game state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.img, nil)

	v := g.r.View()
	status := fmt.Sprintf(
		"FPS: %0.1f\nCenter: (%0.12f, %0.12f)\nScale: %0.3e\nIterations: %d\nPalette: %s",
		ebiten.ActualFPS(),
		v.CenterRe,
		v.CenterIm,
		v.Scale,
		g.r.Iterations(),
		g.r.Palette().Name(),
	)
	ebitenutil.DebugPrint(screen, status)
}

// Layout is called when the window size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.wantW, g.wantH = outsideWidth, outsideHeight
	}
	return g.wantW, g.wantH
}
