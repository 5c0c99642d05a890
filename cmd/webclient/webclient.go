//go:build js && wasm

// webclient.go is the WASM build of the renderer.
// It renders in the browser tab and exposes the Renderer to JavaScript as mandelNew(width, height).

package main

import (
	"fmt"
	"log"
	"syscall/js"

	"github.com/marben/mandelview/render"
)

// main is the entry point for the WASM web client.
// It registers mandelNew on the global object and keeps the module alive.
func main() {
	js.Global().Set("mandelNew", js.FuncOf(mandelNew))
	logScreenf("mandelNew registered")

	// Block main goroutine to keep WASM running
	select {}
}

// mandelNew(width, height) returns a renderer object, or an Error on a bad size.
func mandelNew(_ js.Value, args []js.Value) any {
	if len(args) != 2 {
		return throw(fmt.Errorf("mandelNew(width, height): got %d arguments", len(args)))
	}
	r, err := render.New(args[0].Int(), args[1].Int())
	if err != nil {
		return throw(err)
	}
	logScreenf("renderer %dx%d created", r.Width(), r.Height())
	return newJSRenderer(r)
}

// jsRenderer adapts a render.Renderer to JavaScript calls.
type jsRenderer struct {
	r   *render.Renderer
	buf []byte
}

func newJSRenderer(r *render.Renderer) js.Value {
	jr := &jsRenderer{r: r, buf: make([]byte, r.BufferLen())}
	obj := js.Global().Get("Object").New()
	for name, fn := range map[string]func([]js.Value) (any, error){
		"render":           jr.render,
		"draw":             jr.draw,
		"zoom":             jr.zoom,
		"pan":              jr.pan,
		"reset":            jr.reset,
		"setMaxIterations": jr.setMaxIterations,
		"setPalette":       jr.setPalette,
		"view":             jr.view,
	} {
		obj.Set(name, js.FuncOf(func(_ js.Value, args []js.Value) any {
			v, err := fn(args)
			if err != nil {
				return throw(fmt.Errorf("%s: %w", name, err))
			}
			return v
		}))
	}
	obj.Set("width", r.Width())
	obj.Set("height", r.Height())
	return obj
}

// render(Uint8ClampedArray) fills the array with RGBA pixels.
func (jr *jsRenderer) render(args []js.Value) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	dst := args[0]
	if n := dst.Get("length").Int(); n != len(jr.buf) {
		return nil, fmt.Errorf("array of %d bytes: %w (want %d)", n, render.ErrBufferSize, len(jr.buf))
	}
	if err := jr.r.Render(jr.buf); err != nil {
		return nil, err
	}
	js.CopyBytesToJS(dst, jr.buf)
	return nil, nil
}

func (jr *jsRenderer) zoom(args []js.Value) (any, error) {
	f, err := floats(args, 3)
	if err != nil {
		return nil, err
	}
	return nil, jr.r.Zoom(f[0], f[1], f[2])
}

func (jr *jsRenderer) pan(args []js.Value) (any, error) {
	f, err := floats(args, 2)
	if err != nil {
		return nil, err
	}
	return nil, jr.r.Pan(f[0], f[1])
}

func (jr *jsRenderer) reset([]js.Value) (any, error) {
	jr.r.Reset()
	return nil, nil
}

func (jr *jsRenderer) setMaxIterations(args []js.Value) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	return nil, jr.r.SetMaxIterations(args[0].Int())
}

func (jr *jsRenderer) setPalette(args []js.Value) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	p, err := render.PaletteByName(args[0].String())
	if err != nil {
		return nil, err
	}
	jr.r.SetPalette(p)
	return nil, nil
}

// view() returns {centerRe, centerIm, scale, iterations}.
func (jr *jsRenderer) view([]js.Value) (any, error) {
	v := jr.r.View()
	return map[string]any{
		"centerRe":   v.CenterRe,
		"centerIm":   v.CenterIm,
		"scale":      v.Scale,
		"iterations": jr.r.Iterations(),
	}, nil
}

func floats(args []js.Value, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d arguments, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		if a.Type() != js.TypeNumber {
			return nil, fmt.Errorf("argument %d is %s, want number", i, a.Type())
		}
		out[i] = a.Float()
	}
	return out, nil
}

// throw wraps err in a JavaScript Error. Callers check the result with instanceof Error.
func throw(err error) any {
	logScreenf("error: %v", err)
	log.Println(err)
	return js.Global().Get("Error").New(err.Error())
}

// logScreenf appends a formatted message to the log element in the DOM, if there is one.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return
	}
	logElem := doc.Call("getElementById", "log")
	if logElem.IsNull() {
		return
	}
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}
