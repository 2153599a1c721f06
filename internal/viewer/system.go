package viewer

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/flyer-viewer/pkg/lifecycle"
	"github.com/JaimeStill/flyer-viewer/pkg/pagination"
)

// System tracks the open viewer sessions.
type System interface {
	// Open creates a session for src and starts loading it in the background.
	Open(src Source) (*Session, error)

	Find(id uuid.UUID) (*Session, error)

	// Close sends the session's back signal and tears it down.
	Close(id uuid.UUID) error

	List() []Snapshot

	// Search pages through List, keeping sessions whose label or source matches page.Search.
	Search(page pagination.PageRequest) pagination.PageResult[Snapshot]

	Start(lc *lifecycle.Coordinator) error

	// Shutdown closes every session and waits for background loads to return.
	Shutdown()
}

type system struct {
	runtime *Runtime
	logger  *slog.Logger
	ctx     context.Context

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	loads    sync.WaitGroup
}

// New creates a session registry over rt.
func New(rt *Runtime) System {
	return &system{
		runtime:  rt,
		logger:   rt.Logger,
		ctx:      context.Background(),
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start binds background loads to the lifecycle context and closes all
// sessions on shutdown.
func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.ctx = lc.Context()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("closing viewer sessions")
		s.Shutdown()
	})

	return nil
}

func (s *system) Open(src Source) (*Session, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	session := NewSession(src, s.runtime, s.remove)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.loads.Go(func() {
		if err := session.Load(s.ctx); err != nil {
			s.logger.Debug("session load ended", "session", session.ID(), "error", err)
		}
	})

	s.logger.Info("session opened", "session", session.ID(), "source", src.URL, "label", src.Label)
	return session, nil
}

func (s *system) Find(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *system) Close(id uuid.UUID) error {
	session, err := s.Find(id)
	if err != nil {
		return err
	}
	return session.Back()
}

func (s *system) List() []Snapshot {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, session := range sessions {
		snaps = append(snaps, session.Snapshot())
	}
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return snaps
}

func (s *system) Search(page pagination.PageRequest) pagination.PageResult[Snapshot] {
	matched := slices.DeleteFunc(s.List(), func(snap Snapshot) bool {
		return !page.Matches(snap.Label, snap.Source)
	})
	return pagination.Paginate(matched, page)
}

func (s *system) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		if err := session.Close(); err != nil {
			s.logger.Warn("session close failed", "session", session.ID(), "error", err)
		}
	}

	s.loads.Wait()
}

func (s *system) remove(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session.ID())
	s.mu.Unlock()
}
