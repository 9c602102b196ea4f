package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"constellation-viewer/internal/config"
	"constellation-viewer/internal/constellation"
	"constellation-viewer/internal/logger"
	"constellation-viewer/internal/view"
)

var (
	errImageUnavailable = errors.New("photograph unavailable")
	errRenderFailed     = errors.New("overlay could not be drawn")
	errNothingToWrite   = errors.New("result has no photograph")
)

type renderOptions struct {
	input      string
	out        string
	configPath string
	baseURL    string
	staticRoot string
	backend    string
	debug      bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	c := &cobra.Command{
		Use:   "render",
		Short: "Render a result JSON file to a PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	c.Flags().StringVarP(&opts.input, "input", "i", "", "Result JSON file, or - for stdin (required)")
	c.Flags().StringVarP(&opts.out, "out", "o", "", "Output PNG file (optional; text is printed either way)")
	c.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config YAML file (optional)")
	c.Flags().StringVar(&opts.baseURL, "base-url", "", "Image service base URL (overrides config)")
	c.Flags().StringVar(&opts.staticRoot, "static-root", "", "Serve image paths from this directory instead of HTTP")
	c.Flags().StringVar(&opts.backend, "backend", "", "Render backend: gg or raster (overrides config)")
	c.Flags().BoolVar(&opts.debug, "debug", false, "Enable verbose logging to stderr")

	_ = c.MarkFlagRequired("input")
	return c
}

func runRender(ctx context.Context, opts renderOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	cleanup, err := logger.Setup(logger.Config{
		Debug:  opts.debug || cfg.Log.Debug,
		File:   cfg.Log.File,
		Writer: stderr,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = cleanup() }()

	in, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	p := &filePresenter{w: stdout}
	sess, err := view.Build(cfg, p, logger.L())
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.Show(ctx, in)
	sess.Wait()

	st := sess.State()
	logger.L().Debug("render.done", "state", st, "input", opts.input)

	switch st {
	case view.StateRendered:
		return writeOutput(opts.out, p.img)
	case view.StateTextOnly:
		if opts.out != "" {
			return errNothingToWrite
		}
		return nil
	case view.StateRenderFailed:
		// The plain photograph is still written so the run leaves something
		// to look at.
		if werr := writeOutput(opts.out, p.img); werr != nil {
			return werr
		}
		return fmt.Errorf("%w: %w", errRenderFailed, sess.Err())
	case view.StateImageUnavailable:
		return fmt.Errorf("%w: %w", errImageUnavailable, sess.Err())
	default:
		return fmt.Errorf("unexpected view state %s", st)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts renderOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.baseURL != "" {
		cfg.Service.BaseURL = opts.baseURL
	}
	if opts.staticRoot != "" {
		cfg.Service.StaticRoot = opts.staticRoot
	}
	if opts.backend != "" {
		cfg.Render.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func readInput(path string, stdin io.Reader) (constellation.RenderInput, error) {
	if path == "-" {
		in, err := constellation.Decode(stdin)
		if err != nil {
			return constellation.RenderInput{}, fmt.Errorf("stdin: %w", err)
		}
		return in, nil
	}
	return constellation.LoadFile(path)
}

func writeOutput(path string, img image.Image) error {
	if path == "" || img == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// filePresenter prints the text parts of a result and keeps the last image
// for writing.
type filePresenter struct {
	w   io.Writer
	img image.Image
}

func (p *filePresenter) ShowText(name, story string) {
	fmt.Fprintln(p.w, name)
	if story != "" {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, story)
	}
}

func (p *filePresenter) ShowLoading() {}

// ShowCanvas copies img because the session canvas is reused.
func (p *filePresenter) ShowCanvas(img image.Image) {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	p.img = out
}

func (p *filePresenter) ShowPlainImage(img image.Image) {
	p.img = img
}

func (p *filePresenter) ShowNotice(msg string) {
	fmt.Fprintln(p.w, msg)
}
