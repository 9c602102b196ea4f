package image

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	"constellation-viewer/internal/imagepath"
)

// MaxAttempts bounds the fetches made for one Start: the primary path and at
// most one fallback.
const MaxAttempts = 2

// ErrImageUnavailable matches every *LoadError.
var ErrImageUnavailable = errors.New("image unavailable")

// State is the load lifecycle of a Loader.
type State int

const (
	StateNotStarted State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateLoading:
		return "Loading"
	case StateLoaded:
		return "Loaded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// LoadError reports that every attempted path failed.
type LoadError struct {
	Attempted []string // Paths in the order they were fetched
	Err       error    // Error from the last attempt
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("image unavailable after %d attempt(s) [%s]", len(e.Attempted), strings.Join(e.Attempted, ", "))
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes errors.Is(err, ErrImageUnavailable) true for any LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrImageUnavailable
}

// Outcome is a snapshot of a Loader's state.
type Outcome struct {
	State     State
	Attempt   int      // 1 or 2 while loading; the attempt that settled afterwards
	Layer     *Layer   // Set when Loaded
	Attempted []string // Paths fetched so far
	Err       error    // Set when Failed
}

// Callbacks receive the terminal outcome of a run. Either may be nil.
type Callbacks struct {
	OnLoaded func(*Layer)
	OnFailed func(*LoadError)
}

// Dispatcher runs fn on the thread that owns the render state. The fyne
// front-end passes fyne.Do; headless callers use Inline.
type Dispatcher func(fn func())

// Inline runs fn on the calling goroutine.
func Inline(fn func()) { fn() }

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDispatcher sets how callbacks are delivered.
func WithDispatcher(d Dispatcher) LoaderOption {
	return func(l *Loader) {
		if d != nil {
			l.dispatch = d
		}
	}
}

// WithResolver replaces the fallback path policy.
func WithResolver(resolve func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		if resolve != nil {
			l.resolve = resolve
		}
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader owns the asynchronous load of one photograph.
//
// Start issues the fetch on a goroutine. If it fails, the fallback path from
// imagepath.Resolve is fetched once. The terminal callback is delivered via
// the dispatcher only if the run is still current: a later Start or a
// Token.Dispose supersedes it, and its result is dropped even if the fetch
// settles afterwards.
type Loader struct {
	fetcher  Fetcher
	resolve  func(string) (string, bool)
	dispatch Dispatcher
	logger   *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	outcome Outcome

	wg sync.WaitGroup
}

// NewLoader creates a loader that fetches through f.
func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  f,
		resolve:  imagepath.Resolve,
		dispatch: Inline,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Token identifies one Start call. Disposing it suppresses that run's
// callbacks. The zero Token is valid and disposes nothing.
type Token struct {
	l   *Loader
	gen uint64
}

// Dispose supersedes the run if it is still current and cancels its fetch.
// It is safe to call more than once.
func (t Token) Dispose() {
	if t.l == nil {
		return
	}
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	if t.gen != t.l.gen {
		return
	}
	t.l.gen++
	if t.l.cancel != nil {
		t.l.cancel()
		t.l.cancel = nil
	}
}

// Current reports whether the run is still allowed to deliver callbacks.
func (t Token) Current() bool {
	if t.l == nil {
		return false
	}
	return t.l.current(t.gen)
}

// Start begins loading path. Any earlier run of this loader is superseded.
func (l *Loader) Start(ctx context.Context, path string, cb Callbacks) Token {
	runCtx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.outcome = Outcome{State: StateLoading, Attempt: 1, Attempted: []string{path}}
	l.mu.Unlock()

	l.logger.Debug("image.load.start", "path", path, "run", gen)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		l.run(runCtx, gen, path, cb)
	}()

	return Token{l: l, gen: gen}
}

// Outcome returns the current state snapshot.
func (l *Loader) Outcome() Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.outcome
	out.Attempted = append([]string(nil), l.outcome.Attempted...)
	return out
}

// Wait blocks until every run started by the loader has returned. With the
// Inline dispatcher, callbacks have run by then.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) fetch(ctx context.Context, path string) (image.Image, error) {
	img, err := l.fetcher.Fetch(ctx, path)
	if err == nil && img == nil {
		err = errors.New("fetcher returned no image")
	}
	return img, err
}

func (l *Loader) run(ctx context.Context, gen uint64, path string, cb Callbacks) {
	img, err := l.fetch(ctx, path)
	if err == nil {
		l.finish(gen, path, img, nil, cb)
		return
	}

	candidate, ok := l.resolve(path)
	if !ok || ctx.Err() != nil {
		l.finish(gen, path, nil, err, cb)
		return
	}
	if !l.advance(gen, candidate) {
		l.logger.Debug("image.load.stale", "path", path, "run", gen)
		return
	}
	l.logger.Info("image.load.fallback", "path", path, "candidate", candidate, "err", err)

	img, err = l.fetch(ctx, candidate)
	l.finish(gen, candidate, img, err, cb)
}

// advance moves a current run to its second attempt.
func (l *Loader) advance(gen uint64, candidate string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.outcome.Attempt = 2
	l.outcome.Attempted = append(l.outcome.Attempted, candidate)
	return true
}

func (l *Loader) finish(gen uint64, path string, img image.Image, err error, cb Callbacks) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.logger.Debug("image.load.stale", "path", path, "run", gen)
		return
	}

	var (
		layer   *Layer
		loadErr *LoadError
	)
	if err == nil {
		layer = NewLayer(path, img)
		l.outcome.State = StateLoaded
		l.outcome.Layer = layer
	} else {
		loadErr = &LoadError{
			Attempted: append([]string(nil), l.outcome.Attempted...),
			Err:       err,
		}
		l.outcome.State = StateFailed
		l.outcome.Err = loadErr
	}
	l.mu.Unlock()

	if layer != nil {
		l.logger.Debug("image.load.done", "path", path, "width", layer.Width(), "height", layer.Height())
	} else {
		l.logger.Warn("image.load.failed", "attempted", loadErr.Attempted, "err", err)
	}

	l.dispatch(func() {
		// Dispose may have run between settling and delivery.
		if !l.current(gen) {
			return
		}
		if layer != nil {
			if cb.OnLoaded != nil {
				cb.OnLoaded(layer)
			}
			return
		}
		if cb.OnFailed != nil {
			cb.OnFailed(loadErr)
		}
	})
}

func (l *Loader) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}
