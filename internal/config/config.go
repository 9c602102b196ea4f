// Package config loads the viewer's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"constellation-viewer/internal/httpclient"
	"constellation-viewer/internal/overlay"
	"constellation-viewer/pkg/colorutil"
)

// Backends accepted by render.backend.
const (
	BackendGG     = "gg"
	BackendRaster = "raster"
)

// ErrInvalid classifies validation failures.
var ErrInvalid = errors.New("invalid config")

// Error wraps a load or validation failure with the operation and file.
type Error struct {
	Op   string
	Path string // Optional
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := e.Op
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Config is the root of the configuration file.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig locates the generation service's photographs.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	// StaticRoot, when set, serves image paths from a local directory
	// instead of BaseURL.
	StaticRoot     string        `yaml:"static_root"`
	Timeout        time.Duration `yaml:"timeout"`
	ResponseHeader time.Duration `yaml:"response_header_timeout"`
	MaxConnsIdle   int           `yaml:"max_idle_conns_per_host"`
}

// RenderConfig selects the canvas backend and overlay paint.
type RenderConfig struct {
	Backend   string       `yaml:"backend"`
	Line      StrokeConfig `yaml:"line"`
	Highlight StrokeConfig `yaml:"highlight"`
	Star      StarConfig   `yaml:"star"`
}

// StrokeConfig is a line paint.
type StrokeConfig struct {
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
	Width   float64 `yaml:"width"`
}

// StarConfig is the star disc paint.
type StarConfig struct {
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
	Radius  float64 `yaml:"radius"`
}

// LogConfig controls internal/logger.
type LogConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	hc := httpclient.DefaultConfig()
	return Config{
		Service: ServiceConfig{
			BaseURL:        "http://localhost:5000",
			Timeout:        hc.Timeout,
			ResponseHeader: hc.ResponseHeader,
			MaxConnsIdle:   hc.MaxIdleConnsPerHost,
		},
		Render: RenderConfig{
			Backend: BackendGG,
			Line: StrokeConfig{
				Color:   colorutil.Hex(overlay.DefaultLine.Color),
				Opacity: 0.5,
				Width:   overlay.DefaultLine.Width,
			},
			Highlight: StrokeConfig{
				Color:   colorutil.Hex(overlay.DefaultHighlight.Color),
				Opacity: 0.95,
				Width:   overlay.DefaultHighlight.Width,
			},
			Star: StarConfig{
				Color:   colorutil.Hex(overlay.DefaultStarColor),
				Opacity: 0.9,
				Radius:  overlay.DefaultStarRadius,
			},
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "constellation-viewer", "config.yaml")
}

// Load reads the file at path over Default. An empty path returns Default;
// a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Op: "config.load", Path: path, Err: err}
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, &Error{Op: "config.parse", Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and falls back to Default otherwise.
// It is meant for DefaultPath, which usually does not exist.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the fields Load cannot type-check.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return &Error{Op: "config.validate", Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)}
	}

	if c.Service.StaticRoot == "" {
		u, err := url.Parse(c.Service.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("service.base_url %q must be an http(s) URL", c.Service.BaseURL)
		}
	}
	if c.Service.Timeout < 0 || c.Service.ResponseHeader < 0 {
		return invalid("service timeouts must not be negative")
	}

	switch c.Render.Backend {
	case BackendGG, BackendRaster:
	default:
		return invalid("render.backend %q must be %q or %q", c.Render.Backend, BackendGG, BackendRaster)
	}
	if _, err := c.Render.Style(); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// Style converts the render section to an overlay style.
func (r RenderConfig) Style() (overlay.Style, error) {
	line, err := r.Line.stroke("render.line")
	if err != nil {
		return overlay.Style{}, err
	}
	highlight, err := r.Highlight.stroke("render.highlight")
	if err != nil {
		return overlay.Style{}, err
	}
	if r.Star.Radius < 0 {
		return overlay.Style{}, errors.New("render.star.radius must not be negative")
	}
	star, err := parseColor("render.star", r.Star.Color, r.Star.Opacity)
	if err != nil {
		return overlay.Style{}, err
	}
	return overlay.Style{
		Line:       line,
		Highlight:  highlight,
		StarColor:  star,
		StarRadius: r.Star.Radius,
	}, nil
}

// HTTPClient returns the client settings for the image fetcher.
func (s ServiceConfig) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	if s.Timeout > 0 {
		hc.Timeout = s.Timeout
	}
	if s.ResponseHeader > 0 {
		hc.ResponseHeader = s.ResponseHeader
	}
	if s.MaxConnsIdle > 0 {
		hc.MaxIdleConnsPerHost = s.MaxConnsIdle
	}
	return hc
}

func (s StrokeConfig) stroke(field string) (overlay.Stroke, error) {
	if s.Width < 0 {
		return overlay.Stroke{}, fmt.Errorf("%s.width must not be negative", field)
	}
	c, err := parseColor(field, s.Color, s.Opacity)
	if err != nil {
		return overlay.Stroke{}, err
	}
	return overlay.Stroke{Color: c, Width: s.Width}, nil
}

func parseColor(field, hex string, opacity float64) (color.NRGBA, error) {
	if opacity < 0 || opacity > 1 {
		return color.NRGBA{}, fmt.Errorf("%s.opacity %v must be within 0..1", field, opacity)
	}
	c, err := colorutil.ParseHex(hex, opacity)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%s.color: %w", field, err)
	}
	return c, nil
}
