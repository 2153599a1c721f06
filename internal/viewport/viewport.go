// Package viewport interprets pointer input for the active page as pan and
// zoom, and decides which gestures belong to the page instead of the
// surrounding pager.
package viewport

import "fmt"

// Scale bounds. At MinScale the page fits the viewport and cannot be panned.
const (
	MinScale = 1.0
	MaxScale = 5.0
)

// State identifies the viewport's zoom state.
type State string

// A viewport is idle at MinScale and zoomed above it.
const (
	StateIdle   State = "idle"
	StateZoomed State = "zoomed"
)

// Result reports what the viewport did with an event.
// An unclaimed event must reach the pager unmodified.
type Result struct {
	Claimed  bool
	Consumed bool
}

// Viewport holds the scale and translation of the active page.
// It is not safe for concurrent use.
type Viewport struct {
	scale       float64
	translation Offset
	tracking    bool
}

// New returns an idle viewport.
func New() *Viewport {
	return &Viewport{scale: MinScale}
}

// Scale is the current zoom factor, in [MinScale, MaxScale].
func (v *Viewport) Scale() float64 {
	return v.scale
}

// Translation is the pan offset. It is zero whenever the scale is MinScale.
func (v *Viewport) Translation() Offset {
	return v.translation
}

// State reports StateZoomed above MinScale and StateIdle otherwise.
func (v *Viewport) State() State {
	if v.scale > MinScale {
		return StateZoomed
	}
	return StateIdle
}

// Tracking reports whether a gesture is in progress.
func (v *Viewport) Tracking() bool {
	return v.tracking
}

// Reset returns the viewport to scale 1 with no translation and abandons any
// gesture in progress.
func (v *Viewport) Reset() {
	v.scale = MinScale
	v.translation = Offset{}
	v.tracking = false
}

// Handle applies one frame of pointer input.
//
// The first frame with a pressed pointer only starts the gesture. Later
// frames are left to the pager while the page is at scale 1 with a single
// pointer; anything else is claimed and scales or pans the page. The gesture
// ends on the first frame with no pointer pressed.
func (v *Viewport) Handle(e Event) Result {
	if !v.tracking {
		v.tracking = e.AnyPressed()
		return Result{}
	}
	defer func() {
		if !e.AnyPressed() {
			v.tracking = false
		}
	}()

	if v.scale <= MinScale && e.Count() < 2 {
		return Result{}
	}

	zoom := e.Zoom()
	pan := e.Pan()
	if zoom == 1 && pan.IsZero() {
		return Result{Claimed: true}
	}

	v.scale = clamp(v.scale*zoom, MinScale, MaxScale)
	if v.scale <= MinScale {
		v.translation = Offset{}
	} else {
		v.translation = v.translation.Add(pan)
	}

	return Result{Claimed: true, Consumed: true}
}

// String formats the scale and translation for logs.
func (v *Viewport) String() string {
	return fmt.Sprintf("viewport(%s, scale=%.3f, translation=(%.1f, %.1f))",
		v.State(), v.scale, v.translation.X, v.translation.Y)
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(x, hi))
}
