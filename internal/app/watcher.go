package app

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Watcher polls a result file and triggers a callback when it is rewritten,
// so the viewer can re-show it without the user reopening the file.
type Watcher struct {
	path          string
	checkInterval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	onChange func(path string) // Called when a newer file is detected
}

// NewWatcher creates a watcher for path. The current modification time is
// the baseline.
func NewWatcher(path string, checkInterval time.Duration) (*Watcher, error) {
	// Resolve symlinks so a replaced link target is still noticed.
	if realPath, err := filepath.EvalSymlinks(path); err == nil {
		path = realPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:          path,
		checkInterval: checkInterval,
		baseline:      info.ModTime(),
	}, nil
}

// OnChange sets the callback to invoke when the file changes.
// The callback is called from a background goroutine - use fyne.Do if
// updating UI.
func (w *Watcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching in a background goroutine. Calling Start on a
// running watcher has no effect.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	w.stopCh = nil
}

// watchLoop periodically checks if the file has been modified.
func (w *Watcher) watchLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if cb := w.checkForUpdate(); cb != nil {
				cb(w.path)
			}
		}
	}
}

// checkForUpdate advances the baseline and returns the callback if the file
// is newer than the baseline.
func (w *Watcher) checkForUpdate() func(string) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return nil
	}
	w.baseline = info.ModTime()
	return w.onChange
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Baseline returns the modification time of the last observed version.
func (w *Watcher) Baseline() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.baseline
}

// ResetBaseline updates the baseline to the file's current mod time.
// Call this after reloading manually to avoid a duplicate notification.
func (w *Watcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}
