package image

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultMaxBytes caps the size of a fetched photograph.
const DefaultMaxBytes = 64 << 20

// ErrOutsideRoot is returned by DirFetcher for paths that escape its root.
var ErrOutsideRoot = errors.New("path escapes static root")

// Fetcher retrieves and decodes the photograph at path.
// Fetch must honor ctx cancellation; it is called from a loader goroutine.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) (image.Image, error)

// Fetch calls f(ctx, path).
func (f FetcherFunc) Fetch(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// StatusError reports a non-200 response from the image server.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// HTTPFetcher fetches photographs from the generation service, resolving
// paths against BaseURL.
type HTTPFetcher struct {
	client   *http.Client
	base     *url.URL
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher for the service at baseURL.
func NewHTTPFetcher(client *http.Client, baseURL string) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, base: base, maxBytes: DefaultMaxBytes}, nil
}

// URL returns the absolute URL for path.
func (f *HTTPFetcher) URL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid image path %q: %w", path, err)
	}
	return f.base.ResolveReference(ref).String(), nil
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	u, err := f.URL(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	img, _, err := Decode(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	return img, nil
}

// DirFetcher loads photographs from a local directory laid out like the
// service's URL space, so "/static/images/a.png" is Root/static/images/a.png.
type DirFetcher struct {
	Root string
}

// File returns the local file for path.
func (f DirFetcher) File(path string) (string, error) {
	if strings.Contains(path, "://") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.Join(f.Root, rel), nil
}

// Fetch implements Fetcher.
func (f DirFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := f.File(path)
	if err != nil {
		return nil, err
	}
	layer, err := Load(file)
	if err != nil {
		return nil, err
	}
	return layer.Image, nil
}
