package main

import (
	"net/http"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/viewer"
	"github.com/JaimeStill/flyer-viewer/pkg/openapi"
	"github.com/JaimeStill/flyer-viewer/pkg/routes"
)

// generateSpec builds the API document from every route that carries an operation.
func generateSpec(rs routes.System, cfg *config.Config) *openapi.Spec {
	components := openapi.NewComponents()
	components.AddSchemas(viewer.Spec.Schemas())

	spec := &openapi.Spec{
		OpenAPI: "3.1.0",
		Info: &openapi.Info{
			Title:       cfg.OpenAPI.Title,
			Version:     cfg.Version,
			Description: cfg.OpenAPI.Description,
		},
		Servers:    []*openapi.Server{{URL: cfg.Domain}},
		Components: components,
		Paths:      make(map[string]*openapi.PathItem),
	}

	for _, group := range rs.Groups() {
		group.Walk("", func(pattern string, g routes.Group, route routes.Route) {
			if route.OpenAPI == nil {
				return
			}

			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = g.Tags
			}

			addOperation(spec, pattern, route.Method, op)
		})
	}

	for _, route := range rs.Routes() {
		if route.OpenAPI == nil {
			continue
		}
		addOperation(spec, route.Pattern, route.Method, route.OpenAPI)
	}

	return spec
}

func addOperation(spec *openapi.Spec, path, method string, op *openapi.Operation) {
	if spec.Paths[path] == nil {
		spec.Paths[path] = &openapi.PathItem{}
	}

	switch method {
	case "GET":
		spec.Paths[path].Get = op
	case "POST":
		spec.Paths[path].Post = op
	case "PUT":
		spec.Paths[path].Put = op
	case "DELETE":
		spec.Paths[path].Delete = op
	}
}

func serveOpenAPISpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
