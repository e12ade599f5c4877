// Package fetch retrieves the raw bytes behind a query source. Sources starting
// with "http" are downloaded with a GET request; sources starting with "file"
// are read from the local path that follows the seven character "file://"
// prefix.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	httpPrefix = "http"
	filePrefix = "file"
	// filePrefixLen is the length of "file://"; the path starts right after it.
	filePrefixLen = 7
)

type Config struct {
	// Timeout bounds a whole HTTP fetch. Zero means no timeout.
	Timeout     time.Duration
	BearerToken string
	// TokenHosts lists the hosts that receive BearerToken. An entry without
	// a port matches the host on any port. Empty means the token is never sent.
	TokenHosts []string
}

type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.client = client
}

// Fetch returns the contents of source. Every call goes to the network or
// the filesystem; nothing is cached.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, httpPrefix):
		return f.get(ctx, source)
	case strings.HasPrefix(source, filePrefix) && len(source) > filePrefixLen:
		return f.readFile(source[filePrefixLen:])
	default:
		return nil, &Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("fetch: unsupported source %q: expected an http(s) URL or a file:// path", source),
			Err:     ErrUnsupportedSource,
		}
	}
}

func (f *Fetcher) get(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("fetch: invalid source URL %q", source),
			Err:     err,
		}
	}
	if f.cfg.BearerToken != "" && f.tokenHost(req.URL) {
		req.Header.Set("Authorization", "Bearer "+f.cfg.BearerToken)
	}

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("fetch: failed to execute request: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Code:    http.StatusBadGateway,
			Message: "fetch: failed to read response body",
			Err:     err,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, &Error{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("fetch: status %d: %s", resp.StatusCode, msg),
		}
	}
	f.logger.Debug("fetched source", "source", source, "bytes", len(body), "duration", time.Since(started))
	return body, nil
}

func (f *Fetcher) tokenHost(u *url.URL) bool {
	host := strings.ToLower(u.Host)
	name := strings.ToLower(u.Hostname())
	for _, h := range f.cfg.TokenHosts {
		h = strings.ToLower(h)
		if h == host || h == name {
			return true
		}
	}
	return false
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			code = http.StatusNotFound
		}
		return nil, &Error{
			Code:    code,
			Message: fmt.Sprintf("fetch: %v", err),
			Err:     err,
		}
	}
	f.logger.Debug("read source file", "path", path, "bytes", len(data))
	return data, nil
}
