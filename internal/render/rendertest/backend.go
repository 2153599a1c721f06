// Package rendertest provides an instrumented render.Backend for tests.
// The backend records how many pages are open at once so callers can assert
// that page access through a render.Handle never overlaps.
package rendertest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/render"
)

// ErrInjected is returned by pages listed in Backend.FailPages.
var ErrInjected = errors.New("injected render failure")

// Backend is a fake document with fixed page sizes.
type Backend struct {
	Sizes []render.Size

	// Delay is how long each Render call blocks while its page is open.
	Delay time.Duration

	// FailPages makes Render fail for the listed indices.
	FailPages map[int]bool

	// PanicPages makes Render panic for the listed indices.
	PanicPages map[int]bool

	// OnRender, when set, runs at the start of every Render call while the
	// page is open.
	OnRender func(index int)

	open       atomic.Int32
	maxOpen    atomic.Int32
	overlaps   atomic.Int32
	closeCalls atomic.Int32

	mu       sync.Mutex
	rendered []int
}

// New returns a backend with n letter-sized pages.
func New(n int) *Backend {
	sizes := make([]render.Size, n)
	for i := range sizes {
		sizes[i] = render.Size{Width: 612, Height: 792}
	}
	return &Backend{Sizes: sizes}
}

// Opener returns an opener that always yields b.
func (b *Backend) Opener() render.Opener {
	return func(string) (render.Backend, error) {
		return b, nil
	}
}

// PageCount returns len(Sizes).
func (b *Backend) PageCount() int {
	return len(b.Sizes)
}

// OpenPage opens index and records any overlap with another open page.
func (b *Backend) OpenPage(index int) (render.Page, error) {
	if b.closeCalls.Load() > 0 {
		return nil, fmt.Errorf("open page %d on closed backend", index)
	}

	n := b.open.Add(1)
	if n > 1 {
		b.overlaps.Add(1)
	}
	for {
		cur := b.maxOpen.Load()
		if n <= cur || b.maxOpen.CompareAndSwap(cur, n) {
			break
		}
	}

	return &page{backend: b, index: index}, nil
}

// Close counts the call; pages cannot be opened afterwards.
func (b *Backend) Close() error {
	b.closeCalls.Add(1)
	return nil
}

// MaxConcurrent is the highest number of pages observed open at once.
func (b *Backend) MaxConcurrent() int {
	return int(b.maxOpen.Load())
}

// Overlaps counts page opens that happened while another page was open.
func (b *Backend) Overlaps() int {
	return int(b.overlaps.Load())
}

// CloseCalls counts calls to Close.
func (b *Backend) CloseCalls() int {
	return int(b.closeCalls.Load())
}

// OpenPages is the number of pages currently open.
func (b *Backend) OpenPages() int {
	return int(b.open.Load())
}

// Rendered lists rendered page indices in completion order.
func (b *Backend) Rendered() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.rendered...)
}

type page struct {
	backend *Backend
	index   int
	closed  bool
}

func (p *page) Size() render.Size {
	return p.backend.Sizes[p.index]
}

func (p *page) Render(width, height int) (*image.RGBA, error) {
	if p.backend.OnRender != nil {
		p.backend.OnRender(p.index)
	}
	if p.backend.Delay > 0 {
		time.Sleep(p.backend.Delay)
	}
	if p.backend.PanicPages[p.index] {
		panic(fmt.Sprintf("page %d exploded", p.index))
	}
	if p.backend.FailPages[p.index] {
		return nil, fmt.Errorf("page %d: %w", p.index, ErrInjected)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	shade := uint8(p.index * 40)
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: shade, G: shade, B: shade, A: 0xff}), image.Point{}, draw.Src)

	p.backend.mu.Lock()
	p.backend.rendered = append(p.backend.rendered, p.index)
	p.backend.mu.Unlock()

	return img, nil
}

func (p *page) Close() error {
	if p.closed {
		return fmt.Errorf("page %d closed twice", p.index)
	}
	p.closed = true
	p.backend.open.Add(-1)
	return nil
}
