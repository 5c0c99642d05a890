package loop

// Action is a keyboard binding shared by the interactive front-ends.
type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionMoreIterations
	ActionFewerIterations
	ActionCyclePalette
	ActionReset
)

const (
	// PanStep is how many pixels one arrow key press moves the picture.
	PanStep = 40
	// IterationStep multiplies or divides the iteration cap for [ and ].
	IterationStep = 1.5
)

// RuneAction maps printable keys: + and = zoom in, - zooms out, [ and ] change the iteration
// cap, p cycles palettes and r resets.
func RuneAction(r rune) Action {
	switch r {
	case '+', '=':
		return ActionZoomIn
	case '-', '_':
		return ActionZoomOut
	case ']':
		return ActionMoreIterations
	case '[':
		return ActionFewerIterations
	case 'p', 'P':
		return ActionCyclePalette
	case 'r', 'R':
		return ActionReset
	}
	return ActionNone
}

// Command returns the command for a on a width x height grid. Keyboard zoom is anchored at
// the middle of the grid. Arrow keys move the view, so the picture slides the other way.
func (a Action) Command(width, height int, zoomStep float64) (Command, bool) {
	if zoomStep <= 1 {
		zoomStep = DefaultZoomStep
	}
	cx, cy := float64(width)/2, float64(height)/2
	switch a {
	case ActionZoomIn:
		return Zoom{PX: cx, PY: cy, Factor: zoomStep}, true
	case ActionZoomOut:
		return Zoom{PX: cx, PY: cy, Factor: 1 / zoomStep}, true
	case ActionPanLeft:
		return Pan{DX: PanStep}, true
	case ActionPanRight:
		return Pan{DX: -PanStep}, true
	case ActionPanUp:
		return Pan{DY: PanStep}, true
	case ActionPanDown:
		return Pan{DY: -PanStep}, true
	case ActionMoreIterations:
		return ScaleIterations{Factor: IterationStep}, true
	case ActionFewerIterations:
		return ScaleIterations{Factor: 1 / IterationStep}, true
	case ActionCyclePalette:
		return CyclePalette{}, true
	case ActionReset:
		return Reset{}, true
	}
	return nil, false
}
