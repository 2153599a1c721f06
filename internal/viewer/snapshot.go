package viewer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/flyer-viewer/internal/viewport"
)

// Snapshot is everything needed to draw the viewer: the header, the page
// caption, the active page's transform, the index strip and page states.
type Snapshot struct {
	ID           uuid.UUID       `json:"id"`
	Label        string          `json:"label"`
	Source       string          `json:"source"`
	Status       Status          `json:"status"`
	Failure      *Failure        `json:"failure,omitempty"`
	PageCount    int             `json:"page_count"`
	CurrentPage  int             `json:"current_page"`
	Caption      string          `json:"caption,omitempty"`
	HasPrevious  bool            `json:"has_previous"`
	HasNext      bool            `json:"has_next"`
	Zoom         viewport.State  `json:"zoom"`
	Scale        float64         `json:"scale"`
	Translation  viewport.Offset `json:"translation"`
	SwipeEnabled bool            `json:"swipe_enabled"`
	IndexStrip   []int           `json:"index_strip,omitempty"`
	Pages        []PageState     `json:"pages,omitempty"`
	Resident     []int           `json:"resident,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Snapshot captures the session's current display state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		Label:       s.source.Label,
		Source:      s.source.URL,
		Status:      s.status,
		Failure:     s.failure,
		Zoom:        s.view.State(),
		Scale:       s.view.Scale(),
		Translation: s.view.Translation(),
		CreatedAt:   s.created,
	}

	if s.status != StatusReady {
		return snap
	}

	snap.PageCount = s.nav.PageCount()
	snap.CurrentPage = s.nav.CurrentPage()
	snap.Caption = fmt.Sprintf("Page %d of %d", snap.CurrentPage+1, snap.PageCount)
	snap.HasPrevious = s.nav.HasPrevious()
	snap.HasNext = s.nav.HasNext()
	snap.SwipeEnabled = s.nav.SwipeEnabled()
	snap.IndexStrip = s.strip.Visible()
	snap.Resident = s.cache.Resident()

	snap.Pages = make([]PageState, snap.PageCount)
	for i := range snap.Pages {
		snap.Pages[i] = s.pages[i]
	}

	return snap
}
