// Package script runs Lua zoom tours against a renderer.
//
// A tour is a plain Lua chunk with these globals:
//
//	zoom(px, py, factor)   zoom anchored at a pixel
//	zoom_center(factor)    zoom anchored at the middle of the grid
//	pan(dx, dy)            drag by pixels
//	reset()                back to the starting view
//	jump(re, im, scale)    set the view directly
//	view()                 -> re, im, scale
//	size()                 -> width, height
//	iterations([n])        -> current cap, optionally setting it first
//	palette(name)          switch palette
//	frame()                render and emit one frame, -> frame index
//
// Only the base, table, string and math libraries are available.
package script

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/marben/mandelview/render"
)

// FrameFunc receives every frame a tour renders. The image is not reused.
type FrameFunc func(index int, img *image.RGBA) error

// Tour binds a renderer to a sandboxed Lua state.
type Tour struct {
	r      *render.Renderer
	emit   FrameFunc
	frames int
}

// New returns a tour that drives r and hands frames to emit.
func New(r *render.Renderer, emit FrameFunc) *Tour {
	return &Tour{r: r, emit: emit}
}

// Frames is the number of frames emitted so far.
func (t *Tour) Frames() int { return t.frames }

// RunFile runs the tour stored at path.
func (t *Tour) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tour %s: %w", path, err)
	}
	return t.Run(ctx, path, string(src))
}

// Run executes src. name is used in error messages. Cancelling ctx aborts the script.
func (t *Tour) Run(ctx context.Context, name, src string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openSafeLibraries(L); err != nil {
		return err
	}
	L.SetContext(ctx)
	t.install(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("tour %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("tour %s: %w", name, err)
	}
	return nil
}

// openSafeLibraries opens only libraries without file system or process access.
func openSafeLibraries(L *lua.LState) error {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("opening lua %s library: %w", lib.name, err)
		}
	}
	// base pulls in loaders for files; a tour has no business reading them
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

func (t *Tour) install(L *lua.LState) {
	fns := map[string]lua.LGFunction{
		"zoom":        t.luaZoom,
		"zoom_center": t.luaZoomCenter,
		"pan":         t.luaPan,
		"reset":       t.luaReset,
		"jump":        t.luaJump,
		"view":        t.luaView,
		"size":        t.luaSize,
		"iterations":  t.luaIterations,
		"palette":     t.luaPalette,
		"frame":       t.luaFrame,
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func (t *Tour) luaZoom(L *lua.LState) int {
	px := float64(L.CheckNumber(1))
	py := float64(L.CheckNumber(2))
	factor := float64(L.CheckNumber(3))
	if err := t.r.Zoom(px, py, factor); err != nil {
		L.RaiseError("zoom: %v", err)
	}
	return 0
}

func (t *Tour) luaZoomCenter(L *lua.LState) int {
	factor := float64(L.CheckNumber(1))
	px, py := float64(t.r.Width())/2, float64(t.r.Height())/2
	if err := t.r.Zoom(px, py, factor); err != nil {
		L.RaiseError("zoom_center: %v", err)
	}
	return 0
}

func (t *Tour) luaPan(L *lua.LState) int {
	dx := float64(L.CheckNumber(1))
	dy := float64(L.CheckNumber(2))
	if err := t.r.Pan(dx, dy); err != nil {
		L.RaiseError("pan: %v", err)
	}
	return 0
}

func (t *Tour) luaReset(L *lua.LState) int {
	t.r.Reset()
	return 0
}

func (t *Tour) luaJump(L *lua.LState) int {
	v := render.View{
		CenterRe: float64(L.CheckNumber(1)),
		CenterIm: float64(L.CheckNumber(2)),
		Scale:    float64(L.CheckNumber(3)),
	}
	if err := t.r.SetView(v); err != nil {
		L.RaiseError("jump: %v", err)
	}
	return 0
}

func (t *Tour) luaView(L *lua.LState) int {
	v := t.r.View()
	L.Push(lua.LNumber(v.CenterRe))
	L.Push(lua.LNumber(v.CenterIm))
	L.Push(lua.LNumber(v.Scale))
	return 3
}

func (t *Tour) luaSize(L *lua.LState) int {
	L.Push(lua.LNumber(t.r.Width()))
	L.Push(lua.LNumber(t.r.Height()))
	return 2
}

func (t *Tour) luaIterations(L *lua.LState) int {
	if L.GetTop() >= 1 {
		if err := t.r.SetMaxIterations(L.CheckInt(1)); err != nil {
			L.RaiseError("iterations: %v", err)
		}
	}
	L.Push(lua.LNumber(t.r.Iterations()))
	return 1
}

func (t *Tour) luaPalette(L *lua.LState) int {
	p, err := render.PaletteByName(L.CheckString(1))
	if err != nil {
		L.RaiseError("palette: %v", err)
	}
	t.r.SetPalette(p)
	return 0
}

func (t *Tour) luaFrame(L *lua.LState) int {
	img, err := t.r.RenderImage()
	if err != nil {
		L.RaiseError("frame: %v", err)
	}
	idx := t.frames
	if t.emit != nil {
		if err := t.emit(idx, img); err != nil {
			L.RaiseError("frame %d: %v", idx, err)
		}
	}
	t.frames++
	L.Push(lua.LNumber(idx))
	return 1
}
