package routes

import (
	"net/http"

	"github.com/JaimeStill/flyer-viewer/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// Patterns use net/http ServeMux syntax, including {name} wildcards.
// OpenAPI is optional; routes without it are left out of the API document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
