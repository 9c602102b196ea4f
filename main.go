// Package main provides the entry point for the Constellation Viewer application.
package main

import (
	"log"
	"os"

	"constellation-viewer/internal/app"
	"constellation-viewer/internal/config"
	"constellation-viewer/internal/logger"
	"constellation-viewer/internal/version"
	"constellation-viewer/ui/mainwindow"
	"constellation-viewer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appID    = "io.github.constellation-viewer"
	appTitle = "Constellation Viewer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	cfg, err := config.LoadOptional(config.DefaultPath())
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	cleanup, err := logger.Setup(logger.Config{Debug: cfg.Log.Debug, File: cfg.Log.File})
	if err != nil {
		log.Fatalf("Logger: %v", err)
	}
	defer cleanup()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.NightSkyTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win, err := mainwindow.New(fyneApp, appState, appPrefs, cfg, logger.L())
	if err != nil {
		log.Fatalf("Main window: %v", err)
	}
	win.SetMaster()

	// Handle command line arguments
	if len(os.Args) > 1 {
		resultPath := os.Args[1]
		if err := win.OpenResult(resultPath); err != nil {
			log.Printf("Failed to open result %s: %v", resultPath, err)
		}
	} else {
		win.RestoreLastResult()
	}

	win.ShowAndRun()
}
