//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"
	"time"
)

// draw(canvasId) renders and puts the picture on a canvas of the renderer's size.
// It returns the render time in milliseconds.
func (jr *jsRenderer) draw(args []js.Value) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	start := time.Now()

	// 1. Get the Canvas element and its 2D context
	canvas := js.Global().Get("document").Call("getElementById", args[0].String())
	if canvas.IsNull() {
		return nil, fmt.Errorf("no canvas %q", args[0].String())
	}
	width, height := jr.r.Width(), jr.r.Height()
	if canvas.Get("width").Int() != width || canvas.Get("height").Int() != height {
		canvas.Set("width", width)
		canvas.Set("height", height)
	}
	ctx := canvas.Call("getContext", "2d")

	// 2. Render into our buffer
	if err := jr.r.Render(jr.buf); err != nil {
		return nil, err
	}

	// 3. Copy the Go byte slice into a JS TypedArray (Uint8ClampedArray)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(jr.buf))
	js.CopyBytesToJS(jsData, jr.buf)

	// 4. Create ImageData and put it on the canvas
	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
	return time.Since(start).Milliseconds(), nil
}
