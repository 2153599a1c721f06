package viewer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/flyer-viewer/internal/render/rendertest"
	"github.com/JaimeStill/flyer-viewer/internal/viewer"
	"github.com/JaimeStill/flyer-viewer/pkg/lifecycle"
)

func waitLoaded(t *testing.T, s *viewer.Session) {
	t.Helper()
	select {
	case <-s.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish loading")
	}
}

func TestSystem_OpenFindClose(t *testing.T) {
	backend := rendertest.New(4)
	sys := viewer.New(newRuntime(&fakeFetcher{}, backend.Opener()))

	session, err := sys.Open(viewer.Source{URL: flyerURL, Label: "Grocer", InitialPage: 2})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	waitLoaded(t, session)

	found, err := sys.Find(session.ID())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found != session {
		t.Error("Find() returned a different session")
	}
	if got := found.Snapshot().CurrentPage; got != 2 {
		t.Errorf("CurrentPage = %d, want 2", got)
	}
	if got := len(sys.List()); got != 1 {
		t.Errorf("len(List()) = %d, want 1", got)
	}

	if err := sys.Close(session.ID()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case <-session.Done():
	default:
		t.Error("Done() not closed after Close")
	}
	if _, err := sys.Find(session.ID()); !errors.Is(err, viewer.ErrSessionNotFound) {
		t.Errorf("Find() after Close error = %v, want %v", err, viewer.ErrSessionNotFound)
	}
	if backend.CloseCalls() != 1 {
		t.Errorf("CloseCalls() = %d, want 1", backend.CloseCalls())
	}
}

func TestSystem_OpenInvalidSource(t *testing.T) {
	sys := viewer.New(newRuntime(&fakeFetcher{}, rendertest.New(1).Opener()))

	if _, err := sys.Open(viewer.Source{}); !errors.Is(err, viewer.ErrInvalidSource) {
		t.Errorf("Open() error = %v, want %v", err, viewer.ErrInvalidSource)
	}
	if got := len(sys.List()); got != 0 {
		t.Errorf("len(List()) = %d, want 0", got)
	}
}

func TestSystem_CloseUnknown(t *testing.T) {
	sys := viewer.New(newRuntime(&fakeFetcher{}, rendertest.New(1).Opener()))

	if err := sys.Close(uuid.New()); !errors.Is(err, viewer.ErrSessionNotFound) {
		t.Errorf("Close() error = %v, want %v", err, viewer.ErrSessionNotFound)
	}
}

func TestSystem_ShutdownWithLifecycle(t *testing.T) {
	backend := rendertest.New(2)
	f := &fakeFetcher{}
	sys := viewer.New(newRuntime(f, backend.Opener()))

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var sessions []*viewer.Session
	for range 3 {
		s, err := sys.Open(viewer.Source{URL: flyerURL})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		waitLoaded(t, s)
		sessions = append(sessions, s)
	}

	if err := lc.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	for _, s := range sessions {
		if s.Status() != viewer.StatusClosed {
			t.Errorf("session %s status = %s, want %s", s.ID(), s.Status(), viewer.StatusClosed)
		}
	}
	if got := len(sys.List()); got != 0 {
		t.Errorf("len(List()) = %d, want 0", got)
	}
	if f.Purged() != 3 {
		t.Errorf("Purged() = %d, want 3", f.Purged())
	}
}
