// Package navigation tracks the active page of a document and notifies the
// components that follow it.
package navigation

import "sync"

// Change describes a move from one page to another.
type Change struct {
	Previous int `json:"previous"`
	Current  int `json:"current"`
}

// Listener is called once per page change, in subscription order.
type Listener func(Change)

// ZoomState exposes the active page's zoom so swiping can be suppressed
// while the page is magnified.
type ZoomState interface {
	Scale() float64
}

type subscription struct {
	id       int
	listener Listener
}

// Coordinator owns the current page index.
// State changes and notifications happen on the caller's goroutine.
type Coordinator struct {
	pageCount int
	current   int
	zoom      ZoomState

	mu        sync.Mutex
	listeners []subscription
	nextID    int
}

// New creates a coordinator for pageCount pages starting at initial, clamped
// into range. zoom may be nil, in which case swiping is always enabled.
func New(pageCount, initial int, zoom ZoomState) *Coordinator {
	c := &Coordinator{
		pageCount: max(pageCount, 0),
		zoom:      zoom,
	}
	c.current = c.clamp(initial)
	return c
}

// CurrentPage returns the active page index.
func (c *Coordinator) CurrentPage() int {
	return c.current
}

// PageCount returns the number of pages being navigated.
func (c *Coordinator) PageCount() int {
	return c.pageCount
}

// HasNext reports whether a page follows the current one.
func (c *Coordinator) HasNext() bool {
	return c.current < c.pageCount-1
}

// HasPrevious reports whether a page precedes the current one.
func (c *Coordinator) HasPrevious() bool {
	return c.current > 0
}

// GoTo moves to index, clamped to [0, PageCount). Listeners run only when the
// page actually changes; the return value reports whether it did.
func (c *Coordinator) GoTo(index int) bool {
	target := c.clamp(index)
	if target == c.current {
		return false
	}

	change := Change{Previous: c.current, Current: target}
	c.current = target
	c.notify(change)
	return true
}

// Next moves one page forward. It reports false on the last page.
func (c *Coordinator) Next() bool {
	return c.GoTo(c.current + 1)
}

// Previous moves one page back. It reports false on the first page.
func (c *Coordinator) Previous() bool {
	return c.GoTo(c.current - 1)
}

// SwipeEnabled reports whether the swipe surface may change pages. It is
// false while the active page is zoomed past scale 1.
func (c *Coordinator) SwipeEnabled() bool {
	return c.zoom == nil || c.zoom.Scale() <= 1
}

// Swipe applies a page change requested by the swipe surface. It is ignored
// while swiping is disabled.
func (c *Coordinator) Swipe(delta int) bool {
	if !c.SwipeEnabled() {
		return false
	}
	return c.GoTo(c.current + delta)
}

// Subscribe registers l and returns a function that removes it.
func (c *Coordinator) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, subscription{id: id, listener: l})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Coordinator) notify(change Change) {
	c.mu.Lock()
	listeners := make([]subscription, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, s := range listeners {
		s.listener(change)
	}
}

func (c *Coordinator) clamp(index int) int {
	if c.pageCount == 0 {
		return 0
	}
	return max(0, min(index, c.pageCount-1))
}
