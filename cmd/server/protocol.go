package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/marben/mandelview/loop"
	"github.com/marben/mandelview/render"
)

// maxCanvasSide bounds init sizes before they are converted to int.
const maxCanvasSide = 1 << 16

var (
	errMalformed      = errors.New("malformed message")
	errUnknownType    = errors.New("unknown message type")
	errNotInitialized = errors.New("session not initialized, send init first")
)

// request is one decoded client message. Exactly one of the fields is set.
type request struct {
	init *initRequest
	cmd  loop.Command
}

type initRequest struct {
	width, height int
}

// parseRequest decodes a client text message. zoomStep is the factor of one wheel notch.
func parseRequest(msg []byte, zoomStep float64) (request, error) {
	if !gjson.ValidBytes(msg) {
		return request{}, fmt.Errorf("%w: not json", errMalformed)
	}
	v := gjson.ParseBytes(msg)
	if !v.IsObject() {
		return request{}, fmt.Errorf("%w: not an object", errMalformed)
	}

	fields := func(names ...string) ([]float64, error) {
		out := make([]float64, len(names))
		for i, name := range names {
			f := v.Get(name)
			if f.Type != gjson.Number {
				return nil, fmt.Errorf("%w: %q needs a number", errMalformed, name)
			}
			out[i] = f.Float()
		}
		return out, nil
	}

	switch typ := v.Get("type").String(); typ {
	case "init":
		f, err := fields("width", "height")
		if err != nil {
			return request{}, err
		}
		for i, side := range f {
			if side < 1 || side > maxCanvasSide || side != math.Trunc(side) {
				return request{}, fmt.Errorf("%w: canvas side %v out of range", errMalformed, f[i])
			}
		}
		return request{init: &initRequest{width: int(f[0]), height: int(f[1])}}, nil
	case "zoom":
		f, err := fields("px", "py", "factor")
		if err != nil {
			return request{}, err
		}
		return request{cmd: loop.Zoom{PX: f[0], PY: f[1], Factor: f[2]}}, nil
	case "wheel":
		f, err := fields("px", "py", "deltaY")
		if err != nil {
			return request{}, err
		}
		return request{cmd: loop.WheelZoom(f[0], f[1], f[2], zoomStep)}, nil
	case "pan":
		f, err := fields("dx", "dy")
		if err != nil {
			return request{}, err
		}
		return request{cmd: loop.Pan{DX: f[0], DY: f[1]}}, nil
	case "reset":
		return request{cmd: loop.Reset{}}, nil
	case "iterations":
		f, err := fields("n")
		if err != nil {
			return request{}, err
		}
		return request{cmd: loop.SetIterations{N: int(f[0])}}, nil
	case "palette":
		p, err := render.PaletteByName(v.Get("name").String())
		if err != nil {
			return request{}, err
		}
		return request{cmd: loop.SetPalette{Palette: p}}, nil
	case "":
		return request{}, fmt.Errorf("%w: missing type", errMalformed)
	default:
		return request{}, fmt.Errorf("%w: %q", errUnknownType, typ)
	}
}

// status describes the frame that was just sent.
type status struct {
	session    uuid.UUID
	generation uint64
	view       render.View
	iterations int
	elapsed    time.Duration
}

func (s status) marshal() ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, kv := range []struct {
		key string
		val any
	}{
		{"session", s.session.String()},
		{"generation", s.generation},
		{"centerRe", s.view.CenterRe},
		{"centerIm", s.view.CenterIm},
		{"scale", s.view.Scale},
		{"iterations", s.iterations},
		{"millis", s.elapsed.Milliseconds()},
	} {
		if out, err = sjson.SetBytes(out, kv.key, kv.val); err != nil {
			return nil, fmt.Errorf("status %s: %w", kv.key, err)
		}
	}
	return out, nil
}

func errorMessage(err error) []byte {
	out, serr := sjson.SetBytes([]byte("{}"), "error", err.Error())
	if serr != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return out
}
