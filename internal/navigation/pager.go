package navigation

import (
	"math"

	"github.com/JaimeStill/flyer-viewer/internal/viewport"
)

// Pager turns single-pointer horizontal drags into page changes. It sees
// input after the viewport and ignores anything the viewport consumed.
type Pager struct {
	nav       *Coordinator
	threshold float64

	dragging  bool
	cancelled bool
	pointer   int64
	start     viewport.Offset
	last      viewport.Offset
}

// NewPager creates a pager that changes page once a drag covers threshold pixels.
func NewPager(nav *Coordinator, threshold float64) *Pager {
	return &Pager{nav: nav, threshold: threshold}
}

// Dragging reports whether a drag is being tracked.
func (p *Pager) Dragging() bool {
	return p.dragging
}

// Handle feeds one frame to the pager. consumed reports whether the viewport
// already used the frame. The page changes, on release, only for an
// uncancelled drag: dragging left advances and dragging right goes back.
func (p *Pager) Handle(e viewport.Event, consumed bool) bool {
	if !p.dragging {
		if consumed || e.Count() != 1 || !e.Pointers[0].Pressed {
			return false
		}
		p.dragging = true
		p.cancelled = false
		p.pointer = e.Pointers[0].ID
		p.start = e.Pointers[0].Position
		p.last = p.start
		return false
	}

	if consumed || e.Count() > 1 {
		p.cancelled = true
	}
	for _, ptr := range e.Pointers {
		if ptr.ID == p.pointer {
			p.last = ptr.Position
		}
	}

	if e.AnyPressed() {
		return false
	}

	p.dragging = false
	if p.cancelled {
		return false
	}

	d := p.last.Sub(p.start)
	if math.Abs(d.X) < p.threshold || math.Abs(d.X) <= math.Abs(d.Y) {
		return false
	}

	if d.X < 0 {
		return p.nav.Swipe(1)
	}
	return p.nav.Swipe(-1)
}

// Cancel abandons any drag in progress.
func (p *Pager) Cancel() {
	p.dragging = false
	p.cancelled = false
}
