// Package view orchestrates one result view: it shows the text of a
// generation result at once, loads the photograph, and renders the overlay
// onto a canvas when the photograph arrives. It knows nothing about the
// widget toolkit; a Presenter does the showing.
package view

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"

	"constellation-viewer/internal/constellation"
	skyimage "constellation-viewer/internal/image"
	"constellation-viewer/internal/overlay"
)

// UnavailableNotice is shown when the photograph cannot be loaded.
const UnavailableNotice = "The photograph could not be loaded. The story is still available."

// State is the visible state of a Session.
type State int

const (
	StateIdle State = iota
	StateTextOnly
	StateLoading
	StateRendered
	StateImageUnavailable
	StateRenderFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateTextOnly:
		return "TextOnly"
	case StateLoading:
		return "Loading"
	case StateRendered:
		return "Rendered"
	case StateImageUnavailable:
		return "ImageUnavailable"
	case StateRenderFailed:
		return "RenderFailed"
	default:
		return "Unknown"
	}
}

// Presenter displays what the session decides. Methods are called on the
// dispatcher's thread, or on the caller's for ShowText and ShowLoading.
type Presenter interface {
	ShowText(name, story string)
	ShowLoading()
	ShowCanvas(img image.Image)
	// ShowPlainImage shows the photograph without an overlay. It is used
	// when no drawing context could be obtained.
	ShowPlainImage(img image.Image)
	ShowNotice(msg string)
}

// StateListener observes state changes. err is set for the failure states.
type StateListener func(state State, err error)

// Option configures a Session.
type Option func(*Session)

// WithDispatcher sets where loader callbacks run. The fyne front-end passes
// fyne.Do.
func WithDispatcher(d skyimage.Dispatcher) Option {
	return func(s *Session) {
		if d != nil {
			s.dispatch = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStateListener registers fn for every state change.
func WithStateListener(fn StateListener) Option {
	return func(s *Session) {
		s.listeners = append(s.listeners, fn)
	}
}

// Session drives one result view. Each Show supersedes the previous one:
// a photograph still loading for an older result is never rendered.
type Session struct {
	presenter Presenter
	renderer  *overlay.Renderer
	canvas    overlay.Canvas
	loader    *skyimage.Loader
	dispatch  skyimage.Dispatcher
	logger    *slog.Logger
	listeners []StateListener

	mu     sync.Mutex
	seq    uint64
	token  skyimage.Token
	input  constellation.RenderInput
	state  State
	err    error
	closed bool

	// renderMu serializes access to canvas.
	renderMu sync.Mutex
}

// NewSession wires a session. The canvas is owned by the session from now on.
func NewSession(p Presenter, f skyimage.Fetcher, r *overlay.Renderer, c overlay.Canvas, opts ...Option) *Session {
	s := &Session{
		presenter: p,
		renderer:  r,
		canvas:    c,
		dispatch:  skyimage.Inline,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loader = skyimage.NewLoader(f,
		skyimage.WithDispatcher(s.dispatch),
		skyimage.WithLogger(s.logger),
	)
	return s
}

// Show presents in. The name and story appear immediately; if there is a
// photograph, it is loaded and rendered asynchronously. Failures become
// states, never errors.
func (s *Session) Show(ctx context.Context, in constellation.RenderInput) {
	in = in.Clone()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.token
	s.token = skyimage.Token{}
	s.seq++
	seq := s.seq
	s.input = in
	s.mu.Unlock()

	prev.Dispose()
	s.presenter.ShowText(in.Name, in.Story)

	if !in.HasImage() {
		s.setState(seq, StateTextOnly, nil)
		return
	}

	s.setState(seq, StateLoading, nil)
	s.presenter.ShowLoading()

	tok := s.loader.Start(ctx, in.ImagePath, skyimage.Callbacks{
		OnLoaded: func(layer *skyimage.Layer) { s.onLoaded(seq, in, layer) },
		OnFailed: func(err *skyimage.LoadError) { s.onFailed(seq, err) },
	})

	s.mu.Lock()
	if seq == s.seq {
		s.token = tok
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	tok.Dispose()
}

// Reload shows the current input again, refetching its photograph.
func (s *Session) Reload(ctx context.Context) {
	s.Show(ctx, s.Input())
}

// Input returns the result currently shown.
func (s *Session) Input() constellation.RenderInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Clone()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error behind a failure state, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until no photograph load is in flight.
func (s *Session) Wait() {
	s.loader.Wait()
}

// Close disposes the current load and releases the canvas. Later calls to
// Show are ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.seq++
	tok := s.token
	s.token = skyimage.Token{}
	s.mu.Unlock()

	tok.Dispose()

	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if c, ok := s.canvas.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) onLoaded(seq uint64, in constellation.RenderInput, layer *skyimage.Layer) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if !s.current(seq) {
		return
	}
	err := s.renderer.Render(s.canvas, layer, in)
	if !s.current(seq) {
		return
	}

	if err != nil {
		var rce *overlay.RenderContextError
		if errors.As(err, &rce) {
			s.logger.Warn("view.render_context", "err", err)
		} else {
			s.logger.Error("view.render", "err", err)
		}
		if s.setState(seq, StateRenderFailed, err) {
			s.presenter.ShowPlainImage(layer.Image)
		}
		return
	}

	if s.setState(seq, StateRendered, nil) {
		s.presenter.ShowCanvas(s.canvas.Image())
	}
}

func (s *Session) onFailed(seq uint64, err *skyimage.LoadError) {
	if s.setState(seq, StateImageUnavailable, err) {
		s.presenter.ShowNotice(UnavailableNotice)
	}
}

// setState records st if seq is still current and notifies listeners.
func (s *Session) setState(seq uint64, st State, err error) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return false
	}
	s.state = st
	s.err = err
	s.mu.Unlock()

	s.logger.Debug("view.state", "state", st.String(), "seq", seq)
	for _, fn := range s.listeners {
		fn(st, err)
	}
	return true
}

func (s *Session) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}
