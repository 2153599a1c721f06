package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/flyer-viewer/internal/routes"
	"github.com/JaimeStill/flyer-viewer/pkg/logging"
	pkgroutes "github.com/JaimeStill/flyer-viewer/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + ":" + r.PathValue("id")))
	}
}

func TestBuild(t *testing.T) {
	sys := routes.New(logging.Discard())
	sys.RegisterRoute(pkgroutes.Route{Method: "GET", Pattern: "/healthz", Handler: respond("health")})
	sys.RegisterGroup(pkgroutes.Group{
		Prefix: "/api/sessions",
		Routes: []pkgroutes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: respond("find")},
			{Method: "DELETE", Pattern: "/{id}", Handler: respond("back")},
		},
		Children: []pkgroutes.Group{
			{
				Prefix: "/{id}/pages",
				Routes: []pkgroutes.Route{
					{Method: "GET", Pattern: "/first", Handler: respond("page")},
				},
			},
		},
	})

	if got := len(sys.Groups()); got != 1 {
		t.Errorf("len(Groups()) = %d, want 1", got)
	}
	if got := len(sys.Routes()); got != 1 {
		t.Errorf("len(Routes()) = %d, want 1", got)
	}

	handler := sys.Build()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"standalone route", "GET", "/healthz", http.StatusOK, "health:"},
		{"group route", "GET", "/api/sessions/abc", http.StatusOK, "find:abc"},
		{"group method", "DELETE", "/api/sessions/abc", http.StatusOK, "back:abc"},
		{"child group", "GET", "/api/sessions/abc/pages/first", http.StatusOK, "page:abc"},
		{"wrong method", "POST", "/api/sessions/abc", http.StatusMethodNotAllowed, ""},
		{"unknown path", "GET", "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
