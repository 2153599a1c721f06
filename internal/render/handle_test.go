package render_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/render"
	"github.com/JaimeStill/flyer-viewer/internal/render/rendertest"
	"github.com/JaimeStill/flyer-viewer/pkg/logging"
)

func openHandle(t *testing.T, backend *rendertest.Backend) *render.Handle {
	t.Helper()
	m := render.NewManager(backend.Opener(), logging.Discard())
	h, err := m.Open("flyer.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return h
}

func TestManagerOpen(t *testing.T) {
	tests := []struct {
		name      string
		opener    render.Opener
		wantErr   error
		wantPages int
	}{
		{
			"five pages",
			rendertest.New(5).Opener(),
			nil,
			5,
		},
		{
			"empty document",
			rendertest.New(0).Opener(),
			render.ErrNoPages,
			0,
		},
		{
			"malformed document",
			func(string) (render.Backend, error) { return nil, errors.New("xref table broken") },
			render.ErrOpenFailed,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := render.NewManager(tt.opener, logging.Discard())
			h, err := m.Open("flyer.pdf")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if got := h.PageCount(); got != tt.wantPages {
				t.Errorf("PageCount() = %d, want %d", got, tt.wantPages)
			}
		})
	}
}

func TestManagerOpen_EmptyDocumentClosesBackend(t *testing.T) {
	backend := rendertest.New(0)
	m := render.NewManager(backend.Opener(), logging.Discard())

	if _, err := m.Open("flyer.pdf"); !errors.Is(err, render.ErrNoPages) {
		t.Fatalf("Open() error = %v, want %v", err, render.ErrNoPages)
	}
	if got := backend.CloseCalls(); got != 1 {
		t.Errorf("CloseCalls() = %d, want 1", got)
	}
}

func TestHandleWithPage_Serialized(t *testing.T) {
	backend := rendertest.New(5)
	backend.Delay = 5 * time.Millisecond
	h := openHandle(t, backend)

	var wg sync.WaitGroup
	for range 4 {
		for i := range h.PageCount() {
			wg.Go(func() {
				err := h.WithPage(context.Background(), i, func(p render.Page) error {
					_, err := p.Render(10, 10)
					return err
				})
				if err != nil {
					t.Errorf("WithPage(%d) error = %v", i, err)
				}
			})
		}
	}
	wg.Wait()

	if got := backend.Overlaps(); got != 0 {
		t.Errorf("Overlaps() = %d, want 0", got)
	}
	if got := backend.MaxConcurrent(); got != 1 {
		t.Errorf("MaxConcurrent() = %d, want 1", got)
	}
	if got := len(backend.Rendered()); got != 20 {
		t.Errorf("len(Rendered()) = %d, want 20", got)
	}
}

func TestHandleWithPage_OutOfRange(t *testing.T) {
	h := openHandle(t, rendertest.New(3))

	for _, index := range []int{-1, 3, 10} {
		err := h.WithPage(context.Background(), index, func(render.Page) error { return nil })
		if !errors.Is(err, render.ErrPageOutOfRange) {
			t.Errorf("WithPage(%d) error = %v, want %v", index, err, render.ErrPageOutOfRange)
		}
	}
}

func TestHandleWithPage_ClosesPageOnError(t *testing.T) {
	backend := rendertest.New(2)
	h := openHandle(t, backend)

	want := errors.New("callback failed")
	err := h.WithPage(context.Background(), 1, func(render.Page) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("WithPage() error = %v, want %v", err, want)
	}
	if got := backend.OpenPages(); got != 0 {
		t.Errorf("OpenPages() = %d, want 0", got)
	}
}

func TestHandleWithPage_ContextCanceled(t *testing.T) {
	backend := rendertest.New(2)
	h := openHandle(t, backend)

	started := make(chan struct{})
	release := make(chan struct{})
	go h.WithPage(context.Background(), 0, func(render.Page) error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.WithPage(ctx, 1, func(render.Page) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WithPage() error = %v, want %v", err, context.DeadlineExceeded)
	}
	close(release)
}

func TestHandleClose(t *testing.T) {
	backend := rendertest.New(2)
	h := openHandle(t, backend)

	for range 3 {
		if err := h.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	if got := backend.CloseCalls(); got != 1 {
		t.Errorf("CloseCalls() = %d, want 1", got)
	}
	if !h.Closed() {
		t.Error("Closed() = false, want true")
	}

	err := h.WithPage(context.Background(), 0, func(render.Page) error { return nil })
	if !errors.Is(err, render.ErrHandleClosed) {
		t.Errorf("WithPage() after Close error = %v, want %v", err, render.ErrHandleClosed)
	}
}

func TestHandleClose_WaitsForInFlightPage(t *testing.T) {
	backend := rendertest.New(2)
	h := openHandle(t, backend)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- h.WithPage(context.Background(), 0, func(render.Page) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	closed := make(chan struct{})
	go func() {
		h.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close() returned while a page was open")
	case <-time.After(20 * time.Millisecond):
	}

	if got := backend.CloseCalls(); got != 0 {
		t.Errorf("CloseCalls() during render = %d, want 0", got)
	}

	close(release)
	<-closed

	if err := <-done; err != nil {
		t.Errorf("in-flight WithPage() error = %v", err)
	}
	if got := backend.CloseCalls(); got != 1 {
		t.Errorf("CloseCalls() = %d, want 1", got)
	}
	if got := backend.OpenPages(); got != 0 {
		t.Errorf("OpenPages() = %d, want 0", got)
	}
}

func TestRenderDPI(t *testing.T) {
	tests := []struct {
		name  string
		size  render.Size
		width int
		want  int
	}{
		{"letter at 2x", render.Size{Width: 612, Height: 792}, 1224, 144},
		{"letter at 1000px", render.Size{Width: 612, Height: 792}, 1000, 118},
		{"native width", render.Size{Width: 300, Height: 300}, 300, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render.RenderDPI(tt.size, tt.width); got != tt.want {
				t.Errorf("RenderDPI() = %d, want %d", got, tt.want)
			}
		})
	}
}
