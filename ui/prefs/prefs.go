// Package prefs provides JSON-based viewer preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "constellation-viewer"
	prefsFile = "preferences.json"
)

// Keys used by the viewer.
const (
	KeyLastDir      = "lastDirectory"
	KeyLastResult   = "lastResult"
	KeyWindowWidth  = "windowWidth"
	KeyWindowHeight = "windowHeight"
	KeyFitToWindow  = "fitToWindow"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu      sync.RWMutex
	values  map[string]interface{}
	path    string
	changed bool
}

// Path returns the default preferences file,
// ~/.config/constellation-viewer/preferences.json on Linux.
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, prefsFile)
}

// Load reads preferences from Path().
func Load() *Prefs {
	return LoadFrom(Path())
}

// LoadFrom reads preferences from path. A missing or unreadable file
// yields empty preferences that will be saved to path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	if err == nil {
		p.changed = false
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// SaveIfChanged writes preferences only when a setter ran since the last save.
func (p *Prefs) SaveIfChanged() error {
	p.mu.RLock()
	changed := p.changed
	p.mu.RUnlock()
	if !changed {
		return nil
	}
	return p.Save()
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// Float returns a float64 preference, or 0 if not set.
func (p *Prefs) Float(key string) float64 {
	return p.FloatWithFallback(key, 0)
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.values[key]; ok && old == val {
		return
	}
	p.values[key] = val
	p.changed = true
}
