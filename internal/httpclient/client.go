// Package httpclient builds the HTTP client used to fetch generated photographs.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Config holds client timeouts and pool sizes.
type Config struct {
	// Total timeout for one image request, including reading the body.
	// A context deadline can still override this.
	Timeout time.Duration

	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// DefaultConfig returns timeouts suited to fetching a single photograph.
func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 4,
	}
}

// New returns an *http.Client configured from cfg.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
