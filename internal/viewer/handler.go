package viewer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/flyer-viewer/internal/viewport"
	"github.com/JaimeStill/flyer-viewer/pkg/handlers"
	"github.com/JaimeStill/flyer-viewer/pkg/pagination"
	"github.com/JaimeStill/flyer-viewer/pkg/routes"
)

// Handler provides HTTP endpoints for viewer sessions.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a new viewer HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "viewer"),
		pagination: pagination,
	}
}

// Routes returns the route configuration for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/sessions",
		Tags:        []string{"Sessions"},
		Description: "Flyer viewer sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Open, OpenAPI: Spec.Open},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{id}/pages/{index}", Handler: h.Page, OpenAPI: Spec.Page},
			{Method: "POST", Pattern: "/{id}/navigate", Handler: h.Navigate, OpenAPI: Spec.Navigate},
			{Method: "POST", Pattern: "/{id}/pointer", Handler: h.Pointer, OpenAPI: Spec.Pointer},
			{Method: "POST", Pattern: "/{id}/prefetch", Handler: h.Prefetch, OpenAPI: Spec.Prefetch},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Back, OpenAPI: Spec.Back},
		},
	}
}

// NavigateRequest is the body of POST /{id}/navigate.
type NavigateRequest struct {
	Action string `json:"action"`
	Page   int    `json:"page"`
}

// PointerResponse is the body returned by POST /{id}/pointer.
type PointerResponse struct {
	PointerResult
	Snapshot Snapshot `json:"snapshot"`
}

// List handles GET / - returns a page of open session snapshots.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	handlers.RespondJSON(w, http.StatusOK, h.sys.Search(page))
}

// Open handles POST / - opens a session. With ?wait=true the response is
// sent once the document has loaded or failed.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var src Source
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	session, err := h.sys.Open(src)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		select {
		case <-session.Loaded():
		case <-r.Context().Done():
		}
	}

	handlers.RespondJSON(w, http.StatusCreated, session.Snapshot())
}

// Find handles GET /{id} - returns the session snapshot.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// Page handles GET /{id}/pages/{index} - returns the 0-based page as PNG.
// An optional ?width= raises the minimum raster width, capped at render.max_width.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrPageOutOfRange, r.PathValue("index")))
		return
	}

	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		if width, err = strconv.Atoi(v); err != nil || width < 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid width %q", v))
			return
		}
	}

	bmp, err := session.Page(r.Context(), index, width)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondPNG(w, h.logger, http.StatusOK, bmp.Image)
}

// Navigate handles POST /{id}/navigate - next, previous or goto.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var err error
	switch req.Action {
	case "next":
		_, err = session.Next()
	case "previous":
		_, err = session.Previous()
	case "goto":
		_, err = session.GoTo(req.Page)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// Pointer handles POST /{id}/pointer - applies one frame of pointer input.
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var event viewport.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	res, err := session.Pointer(event)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PointerResponse{
		PointerResult: res,
		Snapshot:      session.Snapshot(),
	})
}

// Prefetch handles POST /{id}/prefetch - renders the window around the
// current page, or the 1-based ?pages= range when given.
func (h *Handler) Prefetch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var pages []int
	if expr := r.URL.Query().Get("pages"); expr != "" {
		snap := session.Snapshot()
		if snap.Status != StatusReady {
			err := fmt.Errorf("%w: %s", ErrNotReady, snap.Status)
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}

		var err error
		if pages, err = ParsePageRange(expr, snap.PageCount); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	states, err := session.Prefetch(r.Context(), pages...)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, states)
}

// Back handles DELETE /{id} - emits the back signal and closes the session.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Close(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, false
	}

	session, err := h.sys.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return session, true
}
