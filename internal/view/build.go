package view

import (
	"fmt"
	"log/slog"

	"constellation-viewer/internal/config"
	"constellation-viewer/internal/httpclient"
	skyimage "constellation-viewer/internal/image"
	"constellation-viewer/internal/overlay"
)

// NewFetcher returns a DirFetcher when a static root is configured and an
// HTTPFetcher for the service base URL otherwise.
func NewFetcher(cfg config.ServiceConfig) (skyimage.Fetcher, error) {
	if cfg.StaticRoot != "" {
		return skyimage.DirFetcher{Root: cfg.StaticRoot}, nil
	}
	return skyimage.NewHTTPFetcher(httpclient.New(cfg.HTTPClient()), cfg.BaseURL)
}

// NewCanvas returns the canvas for a render backend name.
func NewCanvas(backend string) (overlay.Canvas, error) {
	switch backend {
	case config.BackendGG, "":
		return overlay.NewGGCanvas(), nil
	case config.BackendRaster:
		return overlay.NewRasterCanvas(), nil
	default:
		return nil, fmt.Errorf("unknown render backend %q", backend)
	}
}

// Build assembles a Session from configuration.
func Build(cfg config.Config, p Presenter, logger *slog.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fetcher, err := NewFetcher(cfg.Service)
	if err != nil {
		return nil, fmt.Errorf("build fetcher: %w", err)
	}
	style, err := cfg.Render.Style()
	if err != nil {
		return nil, fmt.Errorf("build style: %w", err)
	}
	canvas, err := NewCanvas(cfg.Render.Backend)
	if err != nil {
		return nil, err
	}

	logger.Debug("view.build",
		"backend", cfg.Render.Backend,
		"base_url", cfg.Service.BaseURL,
		"static_root", cfg.Service.StaticRoot)

	renderer := overlay.NewRenderer(style, overlay.WithLogger(logger))
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewSession(p, fetcher, renderer, canvas, opts...), nil
}
