package raster_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/raster"
	"github.com/JaimeStill/flyer-viewer/internal/render"
	"github.com/JaimeStill/flyer-viewer/internal/render/rendertest"
	"github.com/JaimeStill/flyer-viewer/pkg/logging"
)

func newCache(t *testing.T, backend *rendertest.Backend, radius int) *raster.Cache {
	t.Helper()
	h, err := render.NewManager(backend.Opener(), logging.Discard()).Open("flyer.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })

	cfg := &config.RenderConfig{UpscaleFactor: 2, MinWidth: 1000, MaxWidth: 2000}
	return raster.New(h, cfg, radius, logging.Discard())
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		name       string
		native     render.Size
		upscale    float64
		minWidth   int
		maxWidth   int
		wantWidth  int
		wantHeight int
	}{
		{"letter upscaled", render.Size{Width: 612, Height: 792}, 2, 1000, 4000, 1224, 1584},
		{"small page hits min width", render.Size{Width: 200, Height: 400}, 2, 1000, 4000, 1000, 2000},
		{"landscape", render.Size{Width: 800, Height: 400}, 2, 1000, 4000, 1600, 800},
		{"hint raises min width", render.Size{Width: 612, Height: 792}, 2, 1500, 4000, 1500, 1941},
		{"poster capped at max width", render.Size{Width: 3000, Height: 6000}, 2, 1000, 4000, 4000, 8000},
		{"no max width", render.Size{Width: 3000, Height: 6000}, 2, 1000, 0, 6000, 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := raster.OutputSize(tt.native, tt.upscale, tt.minWidth, tt.maxWidth)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("OutputSize() = (%d, %d), want (%d, %d)", w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestRender(t *testing.T) {
	backend := rendertest.New(3)
	c := newCache(t, backend, 1)

	bmp, err := c.Render(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if bmp.Index != 1 {
		t.Errorf("Index = %d, want 1", bmp.Index)
	}
	if bmp.Width != 1224 || bmp.Height != 1584 {
		t.Errorf("size = (%d, %d), want (1224, 1584)", bmp.Width, bmp.Height)
	}
	if got := bmp.Image.Bounds().Dx(); got != bmp.Width {
		t.Errorf("Image width = %d, want %d", got, bmp.Width)
	}

	got, ok := c.Get(1)
	if !ok || got != bmp {
		t.Errorf("Get(1) = %v, %v, want rendered bitmap", got, ok)
	}
}

func TestRender_WidthHintBounded(t *testing.T) {
	tests := []struct {
		name      string
		hint      int
		wantWidth int
	}{
		{"no hint", 0, 1224},
		{"hint below minimum", 400, 1224},
		{"hint within bounds", 1500, 1500},
		{"hint above maximum", 40000, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t, rendertest.New(1), 1)

			bmp, err := c.Render(context.Background(), 0, tt.hint)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if bmp.Width != tt.wantWidth {
				t.Errorf("Width = %d, want %d", bmp.Width, tt.wantWidth)
			}
			if got := bmp.Image.Bounds().Dx(); got != tt.wantWidth {
				t.Errorf("Image width = %d, want %d", got, tt.wantWidth)
			}
		})
	}
}

func TestRender_ContextErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() context.Context
		want error
	}{
		{
			"canceled",
			func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			context.Canceled,
		},
		{
			"deadline exceeded",
			func() context.Context {
				ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
				t.Cleanup(cancel)
				return ctx
			},
			context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t, rendertest.New(2), 1)

			_, err := c.Render(tt.ctx(), 1, 0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Render() error = %v, want %v", err, tt.want)
			}
			if errors.Is(err, raster.ErrPageUnavailable) {
				t.Errorf("Render() error = %v, want it not to be ErrPageUnavailable", err)
			}
			if _, ok := c.Get(1); ok {
				t.Error("Get(1) found a bitmap after an abandoned render")
			}
		})
	}
}

func TestRender_ConcurrentPagesNeverOverlap(t *testing.T) {
	backend := rendertest.New(5)
	backend.Delay = 5 * time.Millisecond
	c := newCache(t, backend, 4)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[int]*raster.Bitmap{}
	)
	for _, index := range []int{0, 4} {
		wg.Go(func() {
			bmp, err := c.Render(context.Background(), index, 0)
			if err != nil {
				t.Errorf("Render(%d) error = %v", index, err)
				return
			}
			mu.Lock()
			results[index] = bmp
			mu.Unlock()
		})
	}
	wg.Wait()

	if got := backend.Overlaps(); got != 0 {
		t.Errorf("Overlaps() = %d, want 0", got)
	}
	for _, index := range []int{0, 4} {
		bmp, ok := results[index]
		if !ok {
			t.Fatalf("missing bitmap for page %d", index)
		}
		if bmp.Index != index {
			t.Errorf("bitmap for page %d has Index %d", index, bmp.Index)
		}
	}
	if got := c.Resident(); !slices.Equal(got, []int{0, 4}) {
		t.Errorf("Resident() = %v, want [0 4]", got)
	}
}

func TestRender_SamePageNotDeduplicated(t *testing.T) {
	backend := rendertest.New(2)
	c := newCache(t, backend, 1)

	var wg sync.WaitGroup
	for range 3 {
		wg.Go(func() {
			if _, err := c.Render(context.Background(), 0, 0); err != nil {
				t.Errorf("Render() error = %v", err)
			}
		})
	}
	wg.Wait()

	if got := len(backend.Rendered()); got != 3 {
		t.Errorf("len(Rendered()) = %d, want 3", got)
	}
}

func TestRender_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*rendertest.Backend)
		index   int
		wantErr error
	}{
		{
			"rasterizer error",
			func(b *rendertest.Backend) { b.FailPages = map[int]bool{1: true} },
			1,
			rendertest.ErrInjected,
		},
		{
			"rasterizer panic",
			func(b *rendertest.Backend) { b.PanicPages = map[int]bool{1: true} },
			1,
			raster.ErrPageUnavailable,
		},
		{
			"out of range",
			func(*rendertest.Backend) {},
			7,
			render.ErrPageOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := rendertest.New(3)
			tt.setup(backend)
			c := newCache(t, backend, 1)

			_, err := c.Render(context.Background(), tt.index, 0)
			if !errors.Is(err, raster.ErrPageUnavailable) {
				t.Errorf("Render() error = %v, want %v", err, raster.ErrPageUnavailable)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if _, ok := c.Get(tt.index); ok {
				t.Errorf("Get(%d) ok = true after failure", tt.index)
			}
			if got := backend.OpenPages(); got != 0 {
				t.Errorf("OpenPages() = %d, want 0", got)
			}

			if _, err := c.Render(context.Background(), 0, 0); err != nil {
				t.Errorf("sibling Render(0) error = %v", err)
			}
		})
	}
}

func TestRetain(t *testing.T) {
	backend := rendertest.New(6)
	c := newCache(t, backend, 1)

	for i := range 6 {
		if _, err := c.Render(context.Background(), i, 0); err != nil {
			t.Fatalf("Render(%d) error = %v", i, err)
		}
	}

	evicted := c.Retain(2)
	if !slices.Equal(evicted, []int{0, 4, 5}) {
		t.Errorf("Retain(2) = %v, want [0 4 5]", evicted)
	}
	if got := c.Resident(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Resident() = %v, want [1 2 3]", got)
	}

	c.Clear()
	if got := c.Resident(); len(got) != 0 {
		t.Errorf("Resident() after Clear = %v, want empty", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name   string
		pages  int
		radius int
		center int
		want   []int
	}{
		{"middle", 6, 1, 2, []int{1, 2, 3}},
		{"first page", 6, 1, 0, []int{0, 1}},
		{"last page", 6, 2, 5, []int{3, 4, 5}},
		{"zero radius", 6, 0, 3, []int{3}},
		{"single page", 1, 3, 0, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t, rendertest.New(tt.pages), tt.radius)
			if got := c.Window(tt.center); !slices.Equal(got, tt.want) {
				t.Errorf("Window(%d) = %v, want %v", tt.center, got, tt.want)
			}
		})
	}
}
