package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/flyer-viewer/internal/fetcher"
	"github.com/JaimeStill/flyer-viewer/internal/navigation"
	"github.com/JaimeStill/flyer-viewer/internal/raster"
	"github.com/JaimeStill/flyer-viewer/internal/render"
	"github.com/JaimeStill/flyer-viewer/internal/viewport"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
	StatusClosed  Status = "closed"
)

// PageStatus is the display state of one page.
type PageStatus string

const (
	PagePending     PageStatus = "pending"
	PageReady       PageStatus = "ready"
	PageUnavailable PageStatus = "unavailable"
)

// PageState reports one page's display state.
type PageState struct {
	Index  int        `json:"index"`
	Status PageStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// PointerResult reports how one frame of pointer input was interpreted.
type PointerResult struct {
	Claimed     bool `json:"claimed"`
	Consumed    bool `json:"consumed"`
	PageChanged bool `json:"page_changed"`
}

// Session is one open flyer.
//
// Fetching and rasterization run on the calling goroutine without holding
// the session lock. Viewport, navigation and page state are only touched
// with the lock held.
type Session struct {
	id      uuid.UUID
	source  Source
	runtime *Runtime
	logger  *slog.Logger
	created time.Time

	mu       sync.Mutex
	status   Status
	failure  *Failure
	doc      *fetcher.Document
	handle   *render.Handle
	cache    *raster.Cache
	nav      *navigation.Coordinator
	view     *viewport.Viewport
	strip    *navigation.IndexStrip
	pager    *navigation.Pager
	pages    map[int]PageState
	moves    int
	unsubs   []func()
	inflight sync.WaitGroup

	renders singleflight.Group

	loaded    chan struct{}
	loadOnce  sync.Once
	done      chan struct{}
	backOnce  sync.Once
	onBack    func(*Session)
	closeOnce sync.Once
}

// NewSession creates a session in the loading state. onBack, if set, runs
// once when the session emits its back signal.
func NewSession(src Source, rt *Runtime, onBack func(*Session)) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		source:  src,
		runtime: rt,
		logger:  rt.Logger.With("session", id),
		created: time.Now(),
		status:  StatusLoading,
		view:    viewport.New(),
		loaded:  make(chan struct{}),
		done:    make(chan struct{}),
		onBack:  onBack,
	}
}

// ID identifies the session in the registry.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Source returns what the session was opened with.
func (s *Session) Source() Source {
	return s.source
}

// Loaded is closed once Load has finished, whatever its outcome.
func (s *Session) Loaded() <-chan struct{} {
	return s.loaded
}

// Done is closed when the session emits its back signal.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Load fetches the document and opens its render handle. Fetch and open
// failures move the session to StatusFailed with a terminal Failure; the
// error is returned as well. If the session closes while Load is running,
// the results are released and ErrClosed is returned.
func (s *Session) Load(ctx context.Context) error {
	defer s.loadOnce.Do(func() { close(s.loaded) })

	if st := s.Status(); st != StatusLoading {
		if st == StatusClosed {
			return ErrClosed
		}
		return fmt.Errorf("load called in %s state", st)
	}

	start := time.Now()
	doc, err := s.runtime.Fetcher.Fetch(ctx, s.source.URL)
	if err != nil {
		return s.fail(err)
	}

	if !s.attachDocument(doc) {
		return ErrClosed
	}

	handle, err := s.runtime.Renders.Open(doc.Path)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusClosed {
		if err := handle.Close(); err != nil {
			s.logger.Warn("render handle close failed", "error", err)
		}
		return ErrClosed
	}

	s.ready(handle)
	s.logger.Info(
		"session ready",
		"label", s.source.Label,
		"pages", handle.PageCount(),
		"page", s.nav.CurrentPage(),
		"duration", time.Since(start),
	)
	return nil
}

func (s *Session) attachDocument(doc *fetcher.Document) bool {
	s.mu.Lock()
	closed := s.status == StatusClosed
	if !closed {
		s.doc = doc
	}
	s.mu.Unlock()

	if closed {
		s.purge(doc)
	}
	return !closed
}

// ready wires the per-document components. Caller holds s.mu.
func (s *Session) ready(handle *render.Handle) {
	count := handle.PageCount()
	cfg := s.runtime.Viewer

	s.handle = handle
	s.cache = raster.New(handle, s.runtime.Render, cfg.Radius(), s.logger)
	s.nav = navigation.New(count, s.source.InitialPage, s.view)
	s.strip = navigation.NewIndexStrip(count, cfg.IndexStripSize)
	s.pager = navigation.NewPager(s.nav, cfg.SwipeThreshold)
	s.strip.ScrollTo(s.nav.CurrentPage())

	s.pages = make(map[int]PageState, count)
	for i := range count {
		s.pages[i] = PageState{Index: i, Status: PagePending}
	}

	s.unsubs = append(s.unsubs,
		s.nav.Subscribe(func(navigation.Change) { s.view.Reset() }),
		s.nav.Subscribe(s.strip.Follow),
		s.nav.Subscribe(s.pageChanged),
	)

	s.status = StatusReady
}

// pageChanged runs from navigation notifications, with s.mu held.
func (s *Session) pageChanged(c navigation.Change) {
	s.moves++
	s.pager.Cancel()
	for _, index := range s.cache.Retain(c.Current) {
		s.pages[index] = PageState{Index: index, Status: PagePending}
	}
	s.logger.Debug("page changed", "from", c.Previous, "to", c.Current)
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusClosed {
		return ErrClosed
	}

	s.status = StatusFailed
	s.failure = newFailure(err, s.source.URL)
	s.logger.Error("session failed", "kind", s.failure.Kind, "error", err)
	return err
}

// Page returns the bitmap for page index, rendering it if it is not
// resident. widthHint raises the minimum output width, up to the configured
// maximum. Concurrent requests for the same page and hint share one render,
// which keeps running when the caller that started it gives up. A
// rasterization failure marks only this page unavailable; a caller whose ctx
// ends gets ctx.Err() and leaves the page state untouched.
func (s *Session) Page(ctx context.Context, index, widthHint int) (*raster.Bitmap, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if index < 0 || index >= s.nav.PageCount() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, index, s.nav.PageCount())
	}
	widthHint = s.cache.ClampWidth(widthHint)
	if bmp, ok := s.cache.Get(index); ok && bmp.Width >= widthHint {
		s.mu.Unlock()
		return bmp, nil
	}
	cache, moves := s.cache, s.moves
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	key := strconv.Itoa(index) + "@" + strconv.Itoa(widthHint)
	ch := s.renders.DoChan(key, func() (any, error) {
		bmp, err := cache.Render(context.WithoutCancel(ctx), index, widthHint)
		s.settle(index, moves, err)
		return bmp, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if s.Status() == StatusClosed {
			return nil, ErrClosed
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*raster.Bitmap), nil
	}
}

// settle records the outcome of one shared render. moves is the page change
// count seen when the render was requested; if the current page has moved
// since, the resident window is applied again so a late bitmap does not
// outlive it.
func (s *Session) settle(index, moves int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.status == StatusClosed:
		s.cache.Clear()
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
	case err != nil:
		s.pages[index] = PageState{Index: index, Status: PageUnavailable, Error: err.Error()}
	default:
		s.pages[index] = PageState{Index: index, Status: PageReady}
		if s.moves != moves {
			for _, evicted := range s.cache.Retain(s.nav.CurrentPage()) {
				s.pages[evicted] = PageState{Index: evicted, Status: PagePending}
			}
		}
	}
}

// Prefetch renders pages concurrently and reports their states. With no
// pages given it renders the resident window around the current page and
// then discards bitmaps outside that window.
func (s *Session) Prefetch(ctx context.Context, pages ...int) ([]PageState, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	window := len(pages) == 0
	if window {
		pages = s.cache.Window(s.nav.CurrentPage())
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, index := range pages {
		wg.Go(func() {
			if _, err := s.Page(ctx, index, 0); err != nil && !errors.Is(err, raster.ErrPageUnavailable) {
				s.logger.Debug("prefetch skipped", "page", index, "error", err)
			}
		})
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return nil, err
	}
	if window {
		for _, index := range s.cache.Retain(s.nav.CurrentPage()) {
			s.pages[index] = PageState{Index: index, Status: PagePending}
		}
	}

	states := make([]PageState, 0, len(pages))
	for _, index := range pages {
		if st, ok := s.pages[index]; ok {
			states = append(states, st)
		}
	}
	return states, nil
}

// Pointer feeds one frame of pointer input to the viewport and then, unless
// the viewport consumed it, to the pager.
func (s *Session) Pointer(e viewport.Event) (PointerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return PointerResult{}, err
	}

	res := s.view.Handle(e)
	changed := s.pager.Handle(e, res.Consumed)

	return PointerResult{
		Claimed:     res.Claimed,
		Consumed:    res.Consumed,
		PageChanged: changed,
	}, nil
}

// GoTo moves to page index, clamped into range.
func (s *Session) GoTo(index int) (bool, error) {
	return s.navigate(func(nav *navigation.Coordinator) bool { return nav.GoTo(index) })
}

// Next moves to the following page, if any.
func (s *Session) Next() (bool, error) {
	return s.navigate((*navigation.Coordinator).Next)
}

// Previous moves to the preceding page, if any.
func (s *Session) Previous() (bool, error) {
	return s.navigate((*navigation.Coordinator).Previous)
}

func (s *Session) navigate(move func(*navigation.Coordinator) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return false, err
	}
	return move(s.nav), nil
}

// Back emits the session's back signal and closes it. Only the first call
// signals.
func (s *Session) Back() error {
	s.backOnce.Do(func() {
		close(s.done)
		if s.onBack != nil {
			s.onBack(s)
		}
		s.logger.Info("back requested")
	})
	return s.Close()
}

// Close tears the session down. Results of in-flight work are discarded,
// the render handle is closed once any in-flight page has been released and
// the fetched bytes are purged when configured. Later calls do nothing.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.status = StatusClosed
		handle, cache, doc := s.handle, s.cache, s.doc
		for _, unsubscribe := range s.unsubs {
			unsubscribe()
		}
		s.unsubs = nil
		s.mu.Unlock()

		if handle != nil {
			if cerr := handle.Close(); cerr != nil {
				err = fmt.Errorf("close render handle: %w", cerr)
			}
		}

		s.inflight.Wait()
		if cache != nil {
			cache.Clear()
		}

		if doc != nil {
			s.purge(doc)
		}

		s.logger.Info("session closed", "lifetime", time.Since(s.created))
	})
	return err
}

func (s *Session) purge(doc *fetcher.Document) {
	if !s.runtime.Viewer.Purge() {
		return
	}
	if err := s.runtime.Fetcher.Purge(context.Background(), doc); err != nil {
		s.logger.Warn("document purge failed", "key", doc.StorageKey, "error", err)
	}
}

func (s *Session) readyLocked() error {
	switch s.status {
	case StatusReady:
		return nil
	case StatusClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: %s", ErrNotReady, s.status)
	}
}
