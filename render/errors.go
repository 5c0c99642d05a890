package render

import "errors"

var (
	// ErrInvalidSize is returned when a renderer is constructed with a non-positive size, or
	// one whose buffer would not fit in an int.
	ErrInvalidSize = errors.New("render: width and height must be positive and bounded")

	// ErrBufferSize is returned by Render when the buffer is not width*height*4 bytes long.
	ErrBufferSize = errors.New("render: buffer length mismatch")

	// ErrInvalidZoomFactor is returned for zoom factors that are not finite and positive.
	ErrInvalidZoomFactor = errors.New("render: zoom factor must be finite and positive")

	// ErrNonFinite is returned when a coordinate, delta or view field is NaN or infinite.
	ErrNonFinite = errors.New("render: non-finite value")

	// ErrInvalidIterations is returned for an iteration cap below 1.
	ErrInvalidIterations = errors.New("render: max iterations must be positive")

	// ErrUnknownPalette is returned by PaletteByName.
	ErrUnknownPalette = errors.New("render: unknown palette")
)
