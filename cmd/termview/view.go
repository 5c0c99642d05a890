package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/marben/mandelview/internal/config"
	"github.com/marben/mandelview/loop"
	"github.com/marben/mandelview/render"
)

// upperHalf draws the top pixel as foreground and the bottom pixel as background.
const upperHalf = '▀'

const tick = time.Second / 30

var arrowActions = map[tcell.Key]loop.Action{
	tcell.KeyLeft:  loop.ActionPanLeft,
	tcell.KeyRight: loop.ActionPanRight,
	tcell.KeyUp:    loop.ActionPanUp,
	tcell.KeyDown:  loop.ActionPanDown,
}

// gridSize is the pixel grid for a terminal of cols x rows cells. The last row holds the
// status line.
func gridSize(cols, rows int) (width, height int) {
	return max(cols, 1), max(2*(rows-1), 2)
}

// cellPixel maps a cell to the pixel at the center of its two halves.
func cellPixel(x, y int) (px, py float64) {
	return float64(x) + 0.5, float64(2*y) + 1
}

// view owns the screen and one renderer sized to it.
type view struct {
	screen tcell.Screen
	cfg    config.Config

	r    *render.Renderer
	ctrl *loop.Controller
	buf  []byte
	ptr  loop.Pointer

	status string
}

func newView(screen tcell.Screen, cfg config.Config) (*view, error) {
	v := &view{screen: screen, cfg: cfg}
	cols, rows := screen.Size()
	if err := v.resize(cols, rows); err != nil {
		return nil, err
	}
	return v, nil
}

// resize rebuilds the renderer for the new terminal size, keeping the current view.
func (v *view) resize(cols, rows int) error {
	width, height := gridSize(cols, rows)
	if v.r != nil && v.r.Width() == width && v.r.Height() == height {
		return nil
	}

	r, err := v.cfg.NewRenderer(width, height)
	if err != nil {
		return err
	}
	if v.r != nil {
		if err := r.SetView(v.r.View()); err != nil {
			return err
		}
		if err := r.SetMaxIterations(v.r.MaxIterations()); err != nil {
			return err
		}
		r.SetPalette(v.r.Palette())
	}
	v.r = r
	v.ctrl = loop.New(r, loop.WithCommandErrorHandler(func(cmd loop.Command, err error) {
		v.status = fmt.Sprintf("%s: %v", cmd, err)
		log.Printf("%s rejected: %v", cmd, err)
	}))
	v.buf = make([]byte, r.BufferLen())
	v.screen.Clear()
	return nil
}

// run polls events on a separate goroutine and redraws on a fixed tick until Esc or q.
func (v *view) run() error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go v.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			done, err := v.handle(ev)
			if err != nil || done {
				return err
			}
		case <-ticker.C:
			if err := v.frame(); err != nil {
				return err
			}
		}
	}
}

// handle reports true when the user asked to quit.
func (v *view) handle(ev tcell.Event) (bool, error) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		cols, rows := e.Size()
		if err := v.resize(cols, rows); err != nil {
			return false, fmt.Errorf("resize: %w", err)
		}
		v.ctrl.Invalidate()

	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyRune:
			if e.Rune() == 'q' {
				return true, nil
			}
			v.submit(loop.RuneAction(e.Rune()))
		default:
			v.submit(arrowActions[e.Key()])
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		px, py := cellPixel(x, y)
		buttons := e.Buttons()
		switch {
		case buttons&tcell.WheelUp != 0:
			v.ctrl.Submit(loop.WheelZoom(px, py, -1, v.cfg.ZoomStep))
		case buttons&tcell.WheelDown != 0:
			v.ctrl.Submit(loop.WheelZoom(px, py, 1, v.cfg.ZoomStep))
		case buttons&tcell.Button1 != 0:
			if !v.ptr.Dragging() {
				v.ptr.Down(px, py)
			} else if pan, ok := v.ptr.Move(px, py); ok {
				v.ctrl.Submit(pan)
			}
		default:
			v.ptr.Up()
		}
	}
	return false, nil
}

func (v *view) submit(a loop.Action) {
	if cmd, ok := a.Command(v.r.Width(), v.r.Height(), v.cfg.ZoomStep); ok {
		v.status = ""
		v.ctrl.Submit(cmd)
	}
}

func (v *view) frame() error {
	start := time.Now()
	rendered, err := v.ctrl.Frame(v.buf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if !rendered {
		return nil
	}
	drawHalfBlocks(v.screen, v.buf, v.r.Width(), v.r.Height())

	line := v.status
	if line == "" {
		view := v.r.View()
		line = fmt.Sprintf("%.10f %+.10fi  scale %.2e  iter %d  %s  %s",
			view.CenterRe, view.CenterIm, view.Scale, v.r.Iterations(), v.r.Palette().Name(),
			time.Since(start).Round(time.Millisecond))
	}
	drawStatus(v.screen, v.r.Height()/2, line)
	v.screen.Show()
	return nil
}

// drawHalfBlocks paints an RGBA buffer of width x height pixels, two rows per cell.
func drawHalfBlocks(s tcell.Screen, buf []byte, width, height int) {
	rgb := func(x, y int) tcell.Color {
		i := (y*width + x) * 4
		return tcell.NewRGBColor(int32(buf[i]), int32(buf[i+1]), int32(buf[i+2]))
	}
	for y := 0; y+1 < height; y += 2 {
		for x := 0; x < width; x++ {
			style := tcell.StyleDefault.Foreground(rgb(x, y)).Background(rgb(x, y+1))
			s.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
}

func drawStatus(s tcell.Screen, row int, line string) {
	cols, _ := s.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		s.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		s.SetContent(x, row, ' ', nil, style)
	}
}
