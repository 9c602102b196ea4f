package mainwindow

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"constellation-viewer/internal/app"
	"constellation-viewer/internal/config"
	"constellation-viewer/internal/view"
	"constellation-viewer/ui/prefs"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.State, *prefs.Prefs) {
	t.Helper()
	a := test.NewTempApp(t)
	state := app.NewState()
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "prefs.json"))
	mw, err := New(a, state, p, config.Default(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(mw.Shutdown)
	return mw, state, p
}

func writeResult(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenTextOnlyResult(t *testing.T) {
	mw, state, p := newTestWindow(t)
	path := writeResult(t, `{"constellation_name": "Draco", "story": "a dragon"}`)

	if err := mw.OpenResult(path); err != nil {
		t.Fatalf("OpenResult: %v", err)
	}
	if mw.Title() != appTitle+" - Draco" {
		t.Errorf("title = %q", mw.Title())
	}
	if mw.result.Title() != "Draco" || mw.result.Story() != "a dragon" {
		t.Errorf("view = %q / %q", mw.result.Title(), mw.result.Story())
	}
	if state.ViewState != view.StateTextOnly {
		t.Errorf("view state = %v", state.ViewState)
	}
	if mw.statusBar.Text != statusText(view.StateTextOnly) {
		t.Errorf("status = %q", mw.statusBar.Text)
	}
	if p.String(prefs.KeyLastResult) != path || p.String(prefs.KeyLastDir) != filepath.Dir(path) {
		t.Errorf("prefs not updated: %q %q", p.String(prefs.KeyLastResult), p.String(prefs.KeyLastDir))
	}
	if mw.watcher == nil {
		t.Error("opened result is not watched")
	}
}

func TestOpenInvalidResultKeepsView(t *testing.T) {
	mw, _, _ := newTestWindow(t)
	good := writeResult(t, `{"constellation_name": "Draco", "story": "a dragon"}`)
	if err := mw.OpenResult(good); err != nil {
		t.Fatal(err)
	}
	bad := writeResult(t, `{"story": 5}`)
	if err := mw.OpenResult(bad); err == nil {
		t.Fatal("expected error")
	}
	if mw.result.Title() != "Draco" {
		t.Errorf("title = %q, want previous result kept", mw.result.Title())
	}
}

func TestRestoreLastResult(t *testing.T) {
	mw, _, p := newTestWindow(t)
	p.SetString(prefs.KeyLastResult, writeResult(t, `{"constellation_name": "Lyra", "story": ""}`))
	mw.RestoreLastResult()
	if mw.result.Title() != "Lyra" {
		t.Errorf("title = %q", mw.result.Title())
	}

	p.SetString(prefs.KeyLastResult, filepath.Join(t.TempDir(), "gone.json"))
	mw.RestoreLastResult()
	if mw.result.Title() != "Lyra" {
		t.Error("missing file should be skipped")
	}
}

func TestFitToggle(t *testing.T) {
	mw, _, _ := newTestWindow(t)
	mw.onToggleFitToWindow()
	if !mw.result.Canvas().GetFitToWindow() || mw.fitToWindowItem.Label != fitLabel(true) {
		t.Errorf("fit = %v label = %q", mw.result.Canvas().GetFitToWindow(), mw.fitToWindowItem.Label)
	}
	mw.onZoomIn()
	if mw.result.Canvas().GetFitToWindow() || mw.fitToWindowItem.Label != fitLabel(false) {
		t.Error("zooming should leave fit-to-window mode")
	}
	mw.onActualSize()
	if mw.result.Canvas().GetZoom() != 1 {
		t.Errorf("zoom = %v", mw.result.Canvas().GetZoom())
	}
}

func TestSavePreferences(t *testing.T) {
	mw, _, p := newTestWindow(t)
	mw.onToggleFitToWindow()
	mw.SavePreferences()
	if !p.Bool(prefs.KeyFitToWindow, false) {
		t.Error("fit-to-window not saved")
	}
}

func TestReloadWithoutResult(t *testing.T) {
	mw, _, _ := newTestWindow(t)
	mw.onReload()
	if mw.statusBar.Text != "Nothing to reload" {
		t.Errorf("status = %q", mw.statusBar.Text)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	a := test.NewTempApp(t)
	cfg := config.Default()
	cfg.Render.Backend = "opengl"
	if _, err := New(a, app.NewState(), prefs.LoadFrom(filepath.Join(t.TempDir(), "p.json")), cfg, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
