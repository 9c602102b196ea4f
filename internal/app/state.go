// Package app provides application state, events, and file watching for the
// viewer front-end.
package app

import (
	"sync"

	"constellation-viewer/internal/constellation"
	"constellation-viewer/internal/view"
)

// State holds the currently opened generation result and the view state.
type State struct {
	mu sync.RWMutex

	// Result file
	ResultPath string
	Result     constellation.RenderInput
	HasResult  bool

	// Result view
	ViewState view.State
	ViewErr   error

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventResultLoaded EventType = iota
	EventResultFailed
	EventViewStateChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ViewStateEvent is the data of EventViewStateChanged.
type ViewStateEvent struct {
	State view.State
	Err   error
}

// ResultFailedEvent is the data of EventResultFailed.
type ResultFailedEvent struct {
	Path string
	Err  error
}

// NewState creates a new application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadResult reads a generation result from path. On success the result
// replaces the current one and EventResultLoaded carries it; on failure the
// current result is kept and EventResultFailed is emitted.
func (s *State) LoadResult(path string) error {
	in, err := constellation.LoadFile(path)
	if err != nil {
		s.Emit(EventResultFailed, ResultFailedEvent{Path: path, Err: err})
		return err
	}
	s.SetResult(path, in)
	return nil
}

// SetResult replaces the current result and emits EventResultLoaded.
func (s *State) SetResult(path string, in constellation.RenderInput) {
	in = in.Clone()
	s.mu.Lock()
	s.ResultPath = path
	s.Result = in
	s.HasResult = true
	s.mu.Unlock()
	s.Emit(EventResultLoaded, in)
}

// CurrentResult returns the opened result, if any.
func (s *State) CurrentResult() (string, constellation.RenderInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ResultPath, s.Result.Clone(), s.HasResult
}

// SetViewState records the result view's state and emits
// EventViewStateChanged.
func (s *State) SetViewState(st view.State, err error) {
	s.mu.Lock()
	s.ViewState = st
	s.ViewErr = err
	s.mu.Unlock()
	s.Emit(EventViewStateChanged, ViewStateEvent{State: st, Err: err})
}
