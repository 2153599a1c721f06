package main

import (
	"log/slog"

	"github.com/JaimeStill/flyer-viewer/pkg/middleware"
)

// buildMiddleware creates the middleware stack with slash trimming and request logging.
func buildMiddleware(logger *slog.Logger) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(logger))
	return middlewareSys
}
