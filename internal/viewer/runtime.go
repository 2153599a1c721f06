package viewer

import (
	"log/slog"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/fetcher"
	"github.com/JaimeStill/flyer-viewer/internal/render"
)

// Runtime holds the collaborators shared by every session.
type Runtime struct {
	Fetcher fetcher.System
	Renders *render.Manager
	Render  *config.RenderConfig
	Viewer  *config.ViewerConfig
	Logger  *slog.Logger
}

// NewRuntime creates a viewer runtime with a viewer-scoped logger.
func NewRuntime(
	fetch fetcher.System,
	renders *render.Manager,
	renderCfg *config.RenderConfig,
	viewerCfg *config.ViewerConfig,
	logger *slog.Logger,
) *Runtime {
	return &Runtime{
		Fetcher: fetch,
		Renders: renders,
		Render:  renderCfg,
		Viewer:  viewerCfg,
		Logger:  logger.With("system", "viewer"),
	}
}
