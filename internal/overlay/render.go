package overlay

import (
	"fmt"
	"log/slog"

	"constellation-viewer/internal/constellation"
	skyimage "constellation-viewer/internal/image"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer composites a photograph with its constellation overlay.
// It holds no per-render state and may be shared.
type Renderer struct {
	style  Style
	logger *slog.Logger
}

// NewRenderer creates a renderer with the given style. Zero widths and radii
// fall back to the defaults.
func NewRenderer(style Style, opts ...Option) *Renderer {
	r := &Renderer{
		style:  style.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Style returns the effective style.
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws layer and in onto c. The canvas is first resized to the
// photograph's native dimensions, so overlay coordinates map 1:1 to pixels
// regardless of how the result is later displayed.
//
// Draw order is fixed: photograph, every line, the selected cluster's lines,
// then stars. If c cannot provide a painter a *RenderContextError is
// returned and nothing is drawn.
func (r *Renderer) Render(c Canvas, layer *skyimage.Layer, in constellation.RenderInput) error {
	if layer == nil || layer.Image == nil {
		return ErrNoImage
	}

	w, h := layer.Width(), layer.Height()
	if err := c.Resize(w, h); err != nil {
		return &RenderContextError{Op: "resize", Err: err}
	}
	p, err := c.Context()
	if err != nil {
		return &RenderContextError{Op: "acquire", Err: err}
	}

	p.DrawImage(layer.Image)

	for i, seg := range in.Lines {
		if !seg.Start.IsFinite() || !seg.End.IsFinite() {
			r.logger.Debug("overlay.skip_line", "index", i)
			continue
		}
		if err := p.StrokeLine(seg, r.style.Line); err != nil {
			return fmt.Errorf("stroke line %d: %w", i, err)
		}
	}

	highlighted := in.Highlighted()
	for i, seg := range highlighted {
		if !seg.Start.IsFinite() || !seg.End.IsFinite() {
			continue
		}
		if err := p.StrokeLine(seg, r.style.Highlight); err != nil {
			return fmt.Errorf("stroke highlighted line %d: %w", i, err)
		}
	}

	for i, star := range in.Stars {
		if !star.IsFinite() {
			r.logger.Debug("overlay.skip_star", "index", i)
			continue
		}
		if err := p.FillDisc(star, r.style.StarRadius, r.style.StarColor); err != nil {
			return fmt.Errorf("fill star %d: %w", i, err)
		}
	}

	r.logger.Debug("overlay.rendered",
		"width", w, "height", h,
		"lines", len(in.Lines), "highlighted", len(highlighted), "stars", len(in.Stars))
	return nil
}
