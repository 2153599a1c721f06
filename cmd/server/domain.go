package main

import (
	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/fetcher"
	"github.com/JaimeStill/flyer-viewer/internal/infrastructure"
	"github.com/JaimeStill/flyer-viewer/internal/render"
	"github.com/JaimeStill/flyer-viewer/internal/viewer"
)

// Domain holds the flyer viewing systems built on top of infrastructure.
type Domain struct {
	Fetcher fetcher.System
	Renders *render.Manager
	Viewer  viewer.System
}

// NewDomain wires the fetcher, render manager, and viewer sessions.
func NewDomain(infra *infrastructure.Infrastructure, cfg *config.Config) *Domain {
	fetch := fetcher.New(&cfg.Fetch, infra.Storage, nil, infra.Logger)
	renders := render.NewManager(render.PDFOpener(cfg.Render.Background), infra.Logger)

	rt := viewer.NewRuntime(fetch, renders, &cfg.Render, &cfg.Viewer, infra.Logger)

	return &Domain{
		Fetcher: fetch,
		Renders: renders,
		Viewer:  viewer.New(rt),
	}
}

// Start registers domain systems with the lifecycle coordinator.
func (d *Domain) Start(infra *infrastructure.Infrastructure) error {
	return d.Viewer.Start(infra.Lifecycle)
}
