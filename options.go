package getwvkeys

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPITimeout     = 30 * time.Second
	DefaultLicenseTimeout = 10 * time.Second
)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

type Option func(*options)

func defaultOptions(timeout time.Duration) []Option {
	return []Option{
		WithHTTPClient(&http.Client{}),
		WithTimeout(timeout),
		WithLogger(zap.NewNop()),
	}
}

func newOptions(timeout time.Duration, opts []Option) *options {
	o := &options{}
	for _, opt := range defaultOptions(timeout) {
		opt(o)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds every request. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}
