package getwvkeys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LicenseServer forwards challenges to an operator supplied license URL.
type LicenseServer struct {
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

func NewLicenseServer(opts ...Option) *LicenseServer {
	o := newOptions(DefaultLicenseTimeout, opts)

	return &LicenseServer{
		http:    o.httpClient,
		timeout: o.timeout,
		log:     o.log,
	}
}

// Forward posts the raw challenge to url and returns the raw license
// response. The body is opaque and returned unmodified.
func (l *LicenseServer) Forward(ctx context.Context, url string, challenge []byte, headers map[string]string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(challenge))
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", opLicense, err)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	start := time.Now()
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: opLicense, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: opLicense, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	l.log.Debug("license server responded",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if !statusOK(resp.StatusCode) {
		return nil, &APIError{
			Op:         opLicense,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	return body, nil
}
