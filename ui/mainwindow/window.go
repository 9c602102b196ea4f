// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"constellation-viewer/internal/app"
	"constellation-viewer/internal/config"
	"constellation-viewer/internal/constellation"
	"constellation-viewer/internal/version"
	"constellation-viewer/internal/view"
	"constellation-viewer/ui/prefs"
	"constellation-viewer/ui/resultview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle = "Constellation Viewer"

	defaultWidth  = 1000
	defaultHeight = 750

	// watchInterval is how often the opened result file is polled.
	watchInterval = time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	logger *slog.Logger

	result    *resultview.View
	session   *view.Session
	watcher   *app.Watcher
	statusBar *widget.Label

	ctx    context.Context
	cancel context.CancelFunc

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates the main window and its result session.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, cfg config.Config, logger *slog.Logger) (*MainWindow, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		logger: logger,
		result: resultview.New(),
	}
	mw.ctx, mw.cancel = context.WithCancel(context.Background())

	session, err := view.Build(cfg, mw.result, logger,
		view.WithDispatcher(fyne.Do),
		view.WithStateListener(state.SetViewState),
	)
	if err != nil {
		mw.cancel()
		return nil, fmt.Errorf("build result view: %w", err)
	}
	mw.session = session

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.SetCloseIntercept(mw.onClose)

	return mw, nil
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	mw.result.Canvas().OnLeftClick(func(x, y float64) {
		mw.updateStatus(fmt.Sprintf("Pixel (%.0f, %.0f)", x, y))
	})
	mw.result.Canvas().OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
	})

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.result.Container(),             // center
	)
	mw.SetContent(content)

	width := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)
	height := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)
	mw.Resize(fyne.NewSize(float32(width), float32(height)))

	if mw.prefs.Bool(prefs.KeyFitToWindow, false) {
		mw.result.Canvas().SetFitToWindow(true)
	}
}

// createToolbar creates the toolbar with file and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	openBtn := widget.NewButton("Open...", mw.onOpenResult)
	reloadBtn := widget.NewButton("Reload", mw.onReload)
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		openBtn,
		reloadBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Result...", mw.onOpenResult),
		fyne.NewMenuItem("Reload", mw.onReload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.onClose() }),
	)

	mw.fitToWindowItem = fyne.NewMenuItem(fitLabel(mw.result.Canvas().GetFitToWindow()), mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventResultLoaded, func(data interface{}) {
		in, ok := data.(constellation.RenderInput)
		if !ok {
			return
		}
		path, _, _ := mw.state.CurrentResult()
		mw.SetTitle(appTitle + " - " + in.Name)
		mw.watch(path)
		mw.rememberResult(path)
		mw.session.Show(mw.ctx, in)
	})

	mw.state.On(app.EventResultFailed, func(data interface{}) {
		ev, ok := data.(app.ResultFailedEvent)
		if !ok {
			return
		}
		mw.logger.Warn("result.load_failed", "path", ev.Path, "error", ev.Err)
		mw.updateStatus("Failed to open " + filepath.Base(ev.Path))
		dialog.ShowError(ev.Err, mw.Window)
	})

	mw.state.On(app.EventViewStateChanged, func(data interface{}) {
		if ev, ok := data.(app.ViewStateEvent); ok {
			mw.updateStatus(statusText(ev.State))
		}
	})
}

// statusText describes a view state for the status bar.
func statusText(st view.State) string {
	switch st {
	case view.StateTextOnly:
		return "No photograph for this result"
	case view.StateLoading:
		return "Loading photograph..."
	case view.StateRendered:
		return "Rendered"
	case view.StateImageUnavailable:
		return view.UnavailableNotice
	case view.StateRenderFailed:
		return "Overlay unavailable, showing photograph"
	default:
		return "Ready"
	}
}

// OpenResult loads a generation result file.
func (mw *MainWindow) OpenResult(path string) error {
	return mw.state.LoadResult(path)
}

// RestoreLastResult reopens the result from the previous session, if any.
func (mw *MainWindow) RestoreLastResult() {
	path := mw.prefs.String(prefs.KeyLastResult)
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		mw.logger.Info("result.restore_skipped", "path", path, "error", err)
		return
	}
	if err := mw.OpenResult(path); err != nil {
		mw.logger.Warn("result.restore_failed", "path", path, "error", err)
	}
}

// watch polls path and reopens it when the generator rewrites it.
func (mw *MainWindow) watch(path string) {
	if mw.watcher != nil {
		if mw.watcher.Path() == path || sameFile(mw.watcher.Path(), path) {
			mw.watcher.ResetBaseline()
			return
		}
		mw.watcher.Stop()
		mw.watcher = nil
	}
	if path == "" {
		return
	}

	w, err := app.NewWatcher(path, watchInterval)
	if err != nil {
		mw.logger.Warn("watcher.start_failed", "path", path, "error", err)
		return
	}
	w.OnChange(func(changed string) {
		mw.logger.Debug("watcher.changed", "path", changed)
		fyne.Do(func() {
			_ = mw.state.LoadResult(path)
		})
	})
	w.Start()
	mw.watcher = w
}

func sameFile(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	return err == nil && ra == rb
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// rememberResult saves the opened file and its directory.
func (mw *MainWindow) rememberResult(path string) {
	if path == "" {
		return
	}
	mw.prefs.SetString(prefs.KeyLastResult, path)
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
}

// SavePreferences writes window geometry and view settings.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	mw.prefs.SetBool(prefs.KeyFitToWindow, mw.result.Canvas().GetFitToWindow())
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.logger.Warn("prefs.save_failed", "error", err)
	}
}

// Shutdown stops background work and releases the session.
func (mw *MainWindow) Shutdown() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
	mw.cancel()
	if err := mw.session.Close(); err != nil {
		mw.logger.Warn("session.close_failed", "error", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenResult() {
	dlg := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		_ = mw.OpenResult(path)
	}, mw.Window)

	dlg.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if dir := mw.getLastDir(); dir != nil {
		dlg.SetLocation(dir)
	}
	dlg.Show()
}

// onReload rereads the opened result file, or refetches the photograph
// when the result did not come from a file.
func (mw *MainWindow) onReload() {
	path, _, ok := mw.state.CurrentResult()
	if !ok {
		mw.updateStatus("Nothing to reload")
		return
	}
	if path != "" {
		_ = mw.state.LoadResult(path)
		return
	}
	mw.session.Reload(mw.ctx)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.result.Canvas().ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.result.Canvas().ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.result.Canvas().GetFitToWindow()
	mw.result.Canvas().SetFitToWindow(enabled)
	mw.fitToWindowItem.Label = fitLabel(enabled)
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.result.Canvas().SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.result.Canvas().GetFitToWindow() {
		mw.result.Canvas().SetFitToWindow(false)
		mw.fitToWindowItem.Label = fitLabel(false)
	}
}

func fitLabel(enabled bool) string {
	if enabled {
		return "✓ Fit to Window"
	}
	return "  Fit to Window"
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\n"+
			"Shows a generated constellation over its night-sky photograph.",
			appTitle, version.String()),
		mw.Window)
}

func (mw *MainWindow) onClose() {
	mw.SavePreferences()
	mw.Shutdown()
	mw.Close()
}
